package provider

import (
	"context"
	"fmt"
	"os"

	"github.com/AlesRybak/terraform-provider-plantuml/internal/generate"
	"github.com/AlesRybak/terraform-provider-plantuml/internal/render"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/diag"
	"github.com/hashicorp/terraform-plugin-framework/path"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/planmodifier"
	"github.com/hashicorp/terraform-plugin-framework/resource/schema/stringplanmodifier"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ resource.Resource = &GenerateResource{}
var _ resource.ResourceWithImportState = &GenerateResource{}

func NewGenerateResource() resource.Resource {
	return &GenerateResource{}
}

// GenerateResource defines the resource implementation.
type GenerateResource struct {
	generator *generate.Generator
}

// GenerateResourceModel describes the resource data model.
type GenerateResourceModel struct {
	ID                types.String `tfsdk:"id"`
	SourceDir         types.String `tfsdk:"source_dir"`
	Includes          types.List   `tfsdk:"includes"`
	Excludes          types.List   `tfsdk:"excludes"`
	OutputDir         types.String `tfsdk:"output_dir"`
	OutputInSourceDir types.Bool   `tfsdk:"output_in_source_dir"`
	TruncatePattern   types.String `tfsdk:"truncate_pattern"`
	Format            types.String `tfsdk:"format"`
	Charset           types.String `tfsdk:"charset"`
	ConfigFile        types.String `tfsdk:"config_file"`
	KeepTmpFiles      types.Bool   `tfsdk:"keep_tmp_files"`
	GraphvizDot       types.String `tfsdk:"graphviz_dot"`
	Verbose           types.Bool   `tfsdk:"verbose"`
	FilesProcessed    types.Int64  `tfsdk:"files_processed"`
	Images            types.List   `tfsdk:"images"`
}

func (r *GenerateResource) Metadata(ctx context.Context, req resource.MetadataRequest, resp *resource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_generate"
}

func (r *GenerateResource) Schema(ctx context.Context, req resource.SchemaRequest, resp *resource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Scans a directory tree for PlantUML diagram sources and renders them into images.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Resource identifier",
				PlanModifiers: []planmodifier.String{
					stringplanmodifier.UseStateForUnknown(),
				},
			},
			"source_dir": schema.StringAttribute{
				MarkdownDescription: "Directory scanned for diagram source files. A missing directory is a warning, not an error: the run becomes a no-op.",
				Required:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"includes": schema.ListAttribute{
				MarkdownDescription: "Glob patterns selecting source files relative to source_dir, e.g. [\"**/*.puml\"]. Empty means every file.",
				ElementType:         types.StringType,
				Optional:            true,
			},
			"excludes": schema.ListAttribute{
				MarkdownDescription: "Glob patterns removing files from the include set.",
				ElementType:         types.StringType,
				Optional:            true,
			},
			"output_dir": schema.StringAttribute{
				MarkdownDescription: "Root directory generated images are written under, mirroring the source tree. Created when missing. Default is 'plantuml.out'.",
				Optional:            true,
			},
			"output_in_source_dir": schema.BoolAttribute{
				MarkdownDescription: "Write each image next to its source file. When true, output_dir and truncate_pattern are ignored.",
				Optional:            true,
			},
			"truncate_pattern": schema.StringAttribute{
				MarkdownDescription: "Slash-delimited tokens ('*' matches any single segment) collapsing the source path prefix before the output offset is computed, e.g. '*/docs'.",
				Optional:            true,
			},
			"format": schema.StringAttribute{
				MarkdownDescription: "Output image format. Default is 'png'.",
				Optional:            true,
				Validators: []validator.String{
					stringvalidator.OneOf(render.FormatValues()...),
				},
			},
			"charset": schema.StringAttribute{
				MarkdownDescription: "Character set used to read diagram sources.",
				Optional:            true,
			},
			"config_file": schema.StringAttribute{
				MarkdownDescription: "External PlantUML configuration file included into every diagram.",
				Optional:            true,
			},
			"keep_tmp_files": schema.BoolAttribute{
				MarkdownDescription: "Accepted for compatibility; currently has no effect.",
				Optional:            true,
			},
			"graphviz_dot": schema.StringAttribute{
				MarkdownDescription: "Path to the Graphviz dot executable used by the local engine for layout.",
				Optional:            true,
			},
			"verbose": schema.BoolAttribute{
				MarkdownDescription: "Increase engine diagnostic output. Default is false.",
				Optional:            true,
			},
			"files_processed": schema.Int64Attribute{
				Computed:            true,
				MarkdownDescription: "Number of diagram source files rendered.",
			},
			"images": schema.ListAttribute{
				Computed:            true,
				ElementType:         types.StringType,
				MarkdownDescription: "Paths of the generated images.",
			},
		},
	}
}

func (r *GenerateResource) Configure(ctx context.Context, req resource.ConfigureRequest, resp *resource.ConfigureResponse) {
	if req.ProviderData == nil {
		return
	}

	data, ok := req.ProviderData.(*providerData)
	if !ok {
		resp.Diagnostics.AddError(
			"Unexpected Resource Configure Type",
			fmt.Sprintf("Expected *providerData, got: %T.", req.ProviderData),
		)
		return
	}

	r.generator = &generate.Generator{Renderer: data.renderer}
}

func (r *GenerateResource) Create(ctx context.Context, req resource.CreateRequest, resp *resource.CreateResponse) {
	var data GenerateResourceModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// Set defaults
	if data.Format.IsNull() {
		data.Format = types.StringValue("png")
	}
	if data.OutputInSourceDir.IsNull() {
		data.OutputInSourceDir = types.BoolValue(false)
	}
	if data.OutputDir.IsNull() && !data.OutputInSourceDir.ValueBool() {
		data.OutputDir = types.StringValue(generate.DefaultOutputDir)
	}
	if data.KeepTmpFiles.IsNull() {
		data.KeepTmpFiles = types.BoolValue(false)
	}
	if data.Verbose.IsNull() {
		data.Verbose = types.BoolValue(false)
	}

	cfg := generate.Config{
		SourceDir:         data.SourceDir.ValueString(),
		Includes:          listToStrings(ctx, data.Includes, &resp.Diagnostics),
		Excludes:          listToStrings(ctx, data.Excludes, &resp.Diagnostics),
		OutputDir:         data.OutputDir.ValueString(),
		OutputInSourceDir: data.OutputInSourceDir.ValueBool(),
		TruncatePattern:   data.TruncatePattern.ValueString(),
		Format:            data.Format.ValueString(),
		Charset:           data.Charset.ValueString(),
		ConfigFile:        data.ConfigFile.ValueString(),
		GraphvizDot:       data.GraphvizDot.ValueString(),
		Verbose:           data.Verbose.ValueBool(),
		KeepTmpFiles:      data.KeepTmpFiles.ValueBool(),
	}
	if resp.Diagnostics.HasError() {
		return
	}

	generator := r.generator
	if generator == nil {
		generator = &generate.Generator{Renderer: &render.ExecRenderer{}}
	}

	result, err := generator.Run(ctx, cfg)
	if err != nil {
		resp.Diagnostics.AddError("Failed to generate diagrams", err.Error())
		return
	}

	if result.Skipped {
		resp.Diagnostics.AddWarning("Source directory not available", result.SkipReason)
	}

	data.FilesProcessed = types.Int64Value(int64(result.FilesProcessed))
	images, diags := types.ListValueFrom(ctx, types.StringType, imagePaths(result))
	resp.Diagnostics.Append(diags...)
	data.Images = images

	// Generate ID
	data.ID = types.StringValue(fmt.Sprintf("%s_%s", data.SourceDir.ValueString(), data.Format.ValueString()))

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *GenerateResource) Read(ctx context.Context, req resource.ReadRequest, resp *resource.ReadResponse) {
	var data GenerateResourceModel

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// If the output tree is gone the images need regenerating
	if !data.OutputInSourceDir.ValueBool() && !data.OutputDir.IsNull() {
		if _, err := os.Stat(data.OutputDir.ValueString()); os.IsNotExist(err) {
			resp.State.RemoveResource(ctx)
			return
		}
	}

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}

func (r *GenerateResource) Update(ctx context.Context, req resource.UpdateRequest, resp *resource.UpdateResponse) {
	var data GenerateResourceModel

	resp.Diagnostics.Append(req.Plan.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// Re-render with the updated configuration
	r.Create(ctx, resource.CreateRequest{Plan: req.Plan}, (*resource.CreateResponse)(resp))
}

func (r *GenerateResource) Delete(ctx context.Context, req resource.DeleteRequest, resp *resource.DeleteResponse) {
	var data GenerateResourceModel

	resp.Diagnostics.Append(req.State.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
	}

	// Generated images are build artifacts; leave them on disk.
}

func (r *GenerateResource) ImportState(ctx context.Context, req resource.ImportStateRequest, resp *resource.ImportStateResponse) {
	resource.ImportStatePassthroughID(ctx, path.Root("id"), req, resp)
}

// listToStrings unwraps a list attribute into a plain string slice.
func listToStrings(ctx context.Context, list types.List, diags *diag.Diagnostics) []string {
	if list.IsNull() || list.IsUnknown() {
		return nil
	}
	var out []string
	diags.Append(list.ElementsAs(ctx, &out, false)...)
	return out
}

// imagePaths collects generated image paths for the computed attribute.
func imagePaths(result *generate.Result) []string {
	paths := make([]string, 0, len(result.Images))
	for _, image := range result.Images {
		paths = append(paths, image.Path)
	}
	return paths
}
