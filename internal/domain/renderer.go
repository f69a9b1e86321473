package domain

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"branchgen.dev/pkg/branchgen/internal/adapter"
	m "branchgen.dev/pkg/branchgen/internal/model"
	"branchgen.dev/pkg/branchgen/internal/strcase"
)

// Built-in template names.
const (
	TemplateAuto    = "auto"
	TemplateAngular = "angular"
	TemplateJest    = "jest"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

// angularQualifiers are the file name qualifiers that select the Angular
// template in auto mode.
var angularQualifiers = map[string]struct{}{
	"component":   {},
	"service":     {},
	"pipe":        {},
	"directive":   {},
	"guard":       {},
	"resolver":    {},
	"interceptor": {},
}

// TemplateData is the value passed to spec templates.
type TemplateData struct {
	ClassName  string
	Import     string
	Instance   string
	TypeScript bool
	Naming     m.Naming
	Methods    []m.MethodCases
}

// Renderer turns a scaffold into spec file content and decides where it goes.
type Renderer interface {
	Render(scaffold m.Scaffold) ([]byte, error)
	OutputPath(naming m.Naming, outputRoot m.Path) (m.Path, error)
	// TemplateFingerprint identifies the template text used for naming.
	TemplateFingerprint(naming m.Naming) string
}

type renderer struct {
	fs        adapter.SourceFSAdapter
	name      string
	templates map[string]*template.Template
	hashes    map[string]string
}

// NewRenderer loads the template selected by name: one of the built-ins, auto,
// or a path to a custom template file.
func NewRenderer(ctx context.Context, fsAdapter adapter.SourceFSAdapter, name string) (Renderer, error) {
	if name == "" {
		name = TemplateAuto
	}

	r := &renderer{
		fs:        fsAdapter,
		name:      name,
		templates: make(map[string]*template.Template),
		hashes:    make(map[string]string),
	}

	for _, builtin := range []string{TemplateAngular, TemplateJest} {
		raw, err := builtinTemplates.ReadFile("templates/" + builtin + ".tmpl")
		if err != nil {
			return nil, fmt.Errorf("read built-in template %s: %w", builtin, err)
		}

		tmpl, err := parseTemplate(builtin, string(raw))
		if err != nil {
			return nil, err
		}

		r.templates[builtin] = tmpl
		r.hashes[builtin] = adapter.HashBytes(raw)
	}

	switch name {
	case TemplateAuto, TemplateAngular, TemplateJest:
		return r, nil
	}

	raw, err := fsAdapter.ReadFile(ctx, m.Path(name))
	if err != nil {
		return nil, fmt.Errorf("read template %s: %w", name, err)
	}

	tmpl, err := parseTemplate(name, string(raw))
	if err != nil {
		return nil, err
	}

	r.templates[name] = tmpl
	r.hashes[name] = adapter.HashBytes(raw)

	return r, nil
}

func parseTemplate(name, text string) (*template.Template, error) {
	tmpl, err := template.New(name).Funcs(templateFuncs()).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse template %s: %w", name, err)
	}

	return tmpl, nil
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"classify":  strcase.Classify,
		"dasherize": strcase.Dasherize,
		"camelize":  strcase.Camelize,
		"indent":    indent,
		"quote":     escapeTitle,
		"testCase":  renderCase,
	}
}

// TemplateFor returns the template name used for a source with this naming.
func (r *renderer) TemplateFor(naming m.Naming) string {
	if r.name != TemplateAuto {
		return r.name
	}

	if _, ok := angularQualifiers[naming.ClassType]; ok {
		return TemplateAngular
	}

	return TemplateJest
}

func (r *renderer) TemplateFingerprint(naming m.Naming) string {
	name := r.TemplateFor(naming)

	return name + ":" + r.hashes[name]
}

func (r *renderer) Render(scaffold m.Scaffold) ([]byte, error) {
	name := r.TemplateFor(scaffold.Naming)

	tmpl, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown template %q", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newTemplateData(scaffold)); err != nil {
		return nil, fmt.Errorf("render %s: %w", scaffold.Source.Path, err)
	}

	return buf.Bytes(), nil
}

// OutputPath returns <name>[.<classType>].class.spec.<ext> next to the source,
// or under outputRoot mirroring the source directory when outputRoot is set.
func (r *renderer) OutputPath(naming m.Naming, outputRoot m.Path) (m.Path, error) {
	parts := []string{strcase.Dasherize(naming.Name)}
	if naming.ClassType != "" {
		parts = append(parts, naming.ClassType)
	}

	parts = append(parts, "class", "spec")
	if naming.Ext != "" {
		parts = append(parts, naming.Ext)
	}

	fileName := strings.Join(parts, ".")

	if outputRoot == "" {
		return r.fs.JoinPath(string(naming.Dir), fileName), nil
	}

	rel, err := r.fs.RelPath(".", naming.Dir)
	if err != nil {
		return "", fmt.Errorf("output path for %s: %w", naming.FileName, err)
	}

	if filepath.IsAbs(string(naming.Dir)) || strings.HasPrefix(string(rel), "..") {
		rel = ""
	}

	return r.fs.JoinPath(string(outputRoot), string(rel), fileName), nil
}

func newTemplateData(scaffold m.Scaffold) TemplateData {
	naming := scaffold.Naming

	className := scaffold.Class.Name
	if className == "" {
		className = strcase.Classify(naming.Name)
	}

	instance := "instance"
	if naming.ClassType != "" {
		instance = strcase.Camelize(naming.ClassType)
	}

	return TemplateData{
		ClassName:  className,
		Import:     "./" + strings.TrimSuffix(naming.FileName, "."+naming.Ext),
		Instance:   instance,
		TypeScript: strings.HasPrefix(naming.Ext, "ts") || strings.HasSuffix(naming.Ext, "ts"),
		Naming:     naming,
		Methods:    scaffold.Methods,
	}
}

// renderCase formats one test case as an it block.
func renderCase(tc m.TestCase) string {
	return fmt.Sprintf("it('%s', () => {\n%s\n});", escapeTitle(tc.Title), indent(2, tc.Body))
}

// escapeTitle makes a title safe inside a single-quoted string literal.
func escapeTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	title = strings.ReplaceAll(title, `\`, `\\`)

	return strings.ReplaceAll(title, `'`, `\'`)
}

// indent prefixes every non-empty line of s with n spaces.
func indent(n int, s string) string {
	pad := strings.Repeat(" ", n)
	lines := strings.Split(s, "\n")

	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}

	return strings.Join(lines, "\n")
}
