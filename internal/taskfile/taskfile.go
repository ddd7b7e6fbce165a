// Package taskfile loads a diagram generation task from an HCL file, the
// configuration surface of the standalone CLI. Values may reference
// environment variables through the `env` object, e.g.
//
//	output_dir = "${env.BUILD_DIR}/diagrams"
package taskfile

import (
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
)

// Task mirrors the provider's attribute surface plus the engine selection
// knobs that live at provider level in Terraform.
type Task struct {
	SourceDir         string   `hcl:"source_dir"`
	Includes          []string `hcl:"includes,optional"`
	Excludes          []string `hcl:"excludes,optional"`
	OutputDir         string   `hcl:"output_dir,optional"`
	OutputInSourceDir bool     `hcl:"output_in_source_dir,optional"`
	TruncatePattern   string   `hcl:"truncate_pattern,optional"`
	Format            string   `hcl:"format,optional"`
	Charset           string   `hcl:"charset,optional"`
	ConfigFile        string   `hcl:"config_file,optional"`
	KeepTmpFiles      bool     `hcl:"keep_tmp_files,optional"`
	GraphvizDot       string   `hcl:"graphviz_dot,optional"`
	Verbose           bool     `hcl:"verbose,optional"`

	RenderURL    string `hcl:"render_url,optional"`
	PlantumlPath string `hcl:"plantuml_path,optional"`
	PlantumlJar  string `hcl:"plantuml_jar,optional"`
	JavaPath     string `hcl:"java_path,optional"`
}

// Load parses and decodes one task file.
func Load(path string) (*Task, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse task file %s: %s", path, diags.Error())
	}

	var task Task
	diags = gohcl.DecodeBody(file.Body, evalContext(), &task)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid task file %s: %s", path, diags.Error())
	}
	return &task, nil
}

// evalContext exposes the process environment as the `env` object.
func evalContext() *hcl.EvalContext {
	env := map[string]cty.Value{}
	for _, entry := range os.Environ() {
		key, value, ok := strings.Cut(entry, "=")
		if ok && key != "" {
			env[key] = cty.StringVal(value)
		}
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}
