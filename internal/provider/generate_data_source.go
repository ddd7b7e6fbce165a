package provider

import (
	"context"
	"crypto/sha256"
	"fmt"

	"github.com/AlesRybak/terraform-provider-plantuml/internal/generate"
	"github.com/AlesRybak/terraform-provider-plantuml/internal/render"
	"github.com/hashicorp/terraform-plugin-framework-validators/stringvalidator"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/datasource/schema"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
)

// Ensure provider defined types fully satisfy framework interfaces.
var _ datasource.DataSource = &GenerateDataSource{}

// GenerateDataSource defines the data source implementation.
type GenerateDataSource struct {
	generator *generate.Generator
}

func NewGenerateDataSource() datasource.DataSource {
	return &GenerateDataSource{}
}

// GenerateDataSourceModel describes the data source data model.
type GenerateDataSourceModel struct {
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

func (d *GenerateDataSource) Metadata(ctx context.Context, req datasource.MetadataRequest, resp *datasource.MetadataResponse) {
	resp.TypeName = req.ProviderTypeName + "_generate"
}

func (d *GenerateDataSource) Schema(ctx context.Context, req datasource.SchemaRequest, resp *datasource.SchemaResponse) {
	resp.Schema = schema.Schema{
		MarkdownDescription: "Renders PlantUML diagram sources on every read. Prefer the resource for build pipelines; the data source suits always-regenerate workflows.",

		Attributes: map[string]schema.Attribute{
			"id": schema.StringAttribute{
				Computed:            true,
				MarkdownDescription: "Data source identifier",
			},
			"source_dir": schema.StringAttribute{
				MarkdownDescription: "Directory scanned for diagram source files.",
				Required:            true,
				Validators: []validator.String{
					stringvalidator.LengthAtLeast(1),
				},
			},
			"includes": schema.ListAttribute{
				MarkdownDescription: "Glob patterns selecting source files relative to source_dir.",
				ElementType:         types.StringType,
				Optional:            true,
			},
			"excludes": schema.ListAttribute{
				MarkdownDescription: "Glob patterns removing files from the include set.",
				ElementType:         types.StringType,
				Optional:            true,
			},
			"output_dir": schema.StringAttribute{
				MarkdownDescription: "Root directory generated images are written under.",
				Optional:            true,
			},
			"output_in_source_dir": schema.BoolAttribute{
				MarkdownDescription: "Write each image next to its source file.",
				Optional:            true,
			},
			"truncate_pattern": schema.StringAttribute{
				MarkdownDescription: "Slash-delimited tokens collapsing the source path prefix before output mirroring.",
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
				MarkdownDescription: "Path to the Graphviz dot executable used by the local engine.",
				Optional:            true,
			},
			"verbose": schema.BoolAttribute{
				MarkdownDescription: "Increase engine diagnostic output.",
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

func (d *GenerateDataSource) Configure(ctx context.Context, req datasource.ConfigureRequest, resp *datasource.ConfigureResponse) {
	if req.ProviderData == nil {
		return
	}

	data, ok := req.ProviderData.(*providerData)
	if !ok {
		resp.Diagnostics.AddError(
			"Unexpected Data Source Configure Type",
			fmt.Sprintf("Expected *providerData, got: %T.", req.ProviderData),
		)
		return
	}

	d.generator = &generate.Generator{Renderer: data.renderer}
}

func (d *GenerateDataSource) Read(ctx context.Context, req datasource.ReadRequest, resp *datasource.ReadResponse) {
	var data GenerateDataSourceModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)
	if resp.Diagnostics.HasError() {
		return
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

	generator := d.generator
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

	// Stable identifier derived from the task inputs
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%s|%s", data.SourceDir.ValueString(), data.OutputDir.ValueString(), data.Format.ValueString())))
	data.ID = types.StringValue(fmt.Sprintf("%x", hash[:8]))

	resp.Diagnostics.Append(resp.State.Set(ctx, &data)...)
}
