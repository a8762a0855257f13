package bindgen

const bindingTemplate = `// Code generated by objcgen from {{ .Framework }}. DO NOT EDIT.

// Package {{ .Package }} binds the {{ .Framework }} {{ if .IsLibrary }}library{{ else }}framework{{ end }}.
package {{ .Package }}

import (
{{- range .Imports }}
	"{{ . }}"
{{- end }}
)
{{ if .Library }}
var lib = {{ .Library }}
{{ end }}
{{- range .Typedefs }}
type {{ .Name }} = {{ .Type }}
{{ end }}
{{- range .Structs }}
type {{ .Name }} struct {
{{- range .Fields }}
	{{ .Name }} {{ .Type }}
{{- end }}
}
{{ end }}
{{- range .Enums }}
type {{ .Name }} {{ .Type }}
{{ if .Values }}
const (
{{- $enum := .Name }}
{{- range .Values }}
	{{ .Name }} {{ $enum }} = {{ .Value }}
{{- end }}
)
{{ end }}
{{- end }}
{{- range .Objects }}
{{- $obj := . }}
{{- if .Define }}
// {{ .Name }} is the Objective-C {{ if .Protocol }}protocol{{ else }}class{{ end }} {{ .ObjCName }}.
type {{ .Name }} struct{ objc.Object }
{{ if .ClassVar }}
// {{ .ClassVar }} is the class object of {{ .ObjCName }}.
var {{ .ClassVar }} = objc.ClassNamed("{{ .ObjCName }}")
{{ end }}
{{- end }}
{{- range .Conversions }}
// {{ .Name }} returns the receiver as {{ .Type }}.
func (self {{ $obj.Name }}) {{ .Name }}() {{ .Type }} {
	return objc.Wrap[{{ .Type }}](self.ID())
}
{{ end }}
{{- range .Methods }}
// {{ .Name }} sends {{ .Doc }}.
func {{ if .Instance }}(self {{ $obj.Name }}) {{ end }}{{ .Name }}({{ .Params }}){{ if .Result }} {{ .Result }}{{ end }} {
	{{ .Body }}
}
{{ end }}
{{- end }}
{{- range .Functions }}
var {{ .Var }} = sync.OnceValue(func() {{ .FuncType }} {
	return objc.Func[{{ .FuncType }}](lib, "{{ .Symbol }}")
})

// {{ .Name }} calls the C function {{ .Symbol }}.
func {{ .Name }}({{ .Params }}){{ if .Result }} {{ .Result }}{{ end }} {
	{{ if .Result }}return {{ end }}{{ .Var }}()({{ .Args }})
}
{{ end }}
{{- range .Statics }}
// {{ .Name }} returns the value of {{ .Symbol }}.
func {{ .Name }}() {{ .Type }} {
	return *objc.Static[{{ .Type }}](lib, "{{ .Symbol }}")
}
{{ end }}`
