// Package provider implements the Terraform provider for PlantUML diagram
// generation. It exposes a resource and a data source that scan a directory
// tree for diagram sources and render them through an external PlantUML
// engine, either a local executable or a render server.
package provider

import (
	"context"

	"github.com/AlesRybak/terraform-provider-plantuml/internal/render"
	"github.com/hashicorp/terraform-plugin-framework/datasource"
	"github.com/hashicorp/terraform-plugin-framework/provider"
	"github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/resource"
	"github.com/hashicorp/terraform-plugin-framework/types"
)

// Ensure PlantumlProvider satisfies various provider interfaces.
var _ provider.Provider = &PlantumlProvider{}

// PlantumlProvider defines the provider implementation.
type PlantumlProvider struct {
	// version is set to the provider version on release, "dev" when the
	// provider is built and ran locally, and "test" when running acceptance
	// testing.
	version string
}

// PlantumlProviderModel describes the provider data model.
type PlantumlProviderModel struct {
	RenderURL    types.String `tfsdk:"render_url"`
	PlantumlPath types.String `tfsdk:"plantuml_path"`
	PlantumlJar  types.String `tfsdk:"plantuml_jar"`
	JavaPath     types.String `tfsdk:"java_path"`
}

// providerData is handed to resources and data sources after Configure.
type providerData struct {
	renderer render.Renderer
}

func (p *PlantumlProvider) Metadata(ctx context.Context, req provider.MetadataRequest, resp *provider.MetadataResponse) {
	resp.TypeName = "plantuml"
	resp.Version = p.version
}

func (p *PlantumlProvider) Schema(ctx context.Context, req provider.SchemaRequest, resp *provider.SchemaResponse) {
	resp.Schema = schema.Schema{
		Description: "The PlantUML provider renders diagram description files (.puml and friends) into images through an external PlantUML engine.",
		Attributes: map[string]schema.Attribute{
			"render_url": schema.StringAttribute{
				Description: "Base URL of a PlantUML render server, e.g. https://www.plantuml.com/plantuml. When set, rendering happens over HTTP instead of a local engine.",
				Optional:    true,
			},
			"plantuml_path": schema.StringAttribute{
				Description: "Path to the PlantUML executable. Defaults to 'plantuml' on PATH. Ignored when render_url or plantuml_jar is set.",
				Optional:    true,
			},
			"plantuml_jar": schema.StringAttribute{
				Description: "Path to a plantuml.jar to run through the JVM instead of a wrapper executable.",
				Optional:    true,
			},
			"java_path": schema.StringAttribute{
				Description: "JVM used with plantuml_jar. Defaults to 'java' on PATH.",
				Optional:    true,
			},
		},
	}
}

func (p *PlantumlProvider) Configure(ctx context.Context, req provider.ConfigureRequest, resp *provider.ConfigureResponse) {
	var data PlantumlProviderModel

	resp.Diagnostics.Append(req.Config.Get(ctx, &data)...)

	if resp.Diagnostics.HasError() {
		return
	}

	var renderer render.Renderer
	if !data.RenderURL.IsNull() && data.RenderURL.ValueString() != "" {
		renderer = render.NewServerRenderer(data.RenderURL.ValueString())
	} else {
		renderer = &render.ExecRenderer{
			Executable: data.PlantumlPath.ValueString(),
			JarPath:    data.PlantumlJar.ValueString(),
			JavaPath:   data.JavaPath.ValueString(),
		}
	}

	// Make the engine available to resources and data sources
	resp.DataSourceData = &providerData{renderer: renderer}
	resp.ResourceData = &providerData{renderer: renderer}
}

func (p *PlantumlProvider) Resources(ctx context.Context) []func() resource.Resource {
	return []func() resource.Resource{
		NewGenerateResource,
	}
}

func (p *PlantumlProvider) DataSources(ctx context.Context) []func() datasource.DataSource {
	return []func() datasource.DataSource{
		NewGenerateDataSource,
	}
}

func New(version string) func() provider.Provider {
	return func() provider.Provider {
		return &PlantumlProvider{
			version: version,
		}
	}
}
