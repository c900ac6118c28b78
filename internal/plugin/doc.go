// Package plugin scans a directory of script files and turns each into a
// registry.Descriptor that delegates execution to an injected ScriptRunner.
// spec.md places the scripting host itself out of scope (§1); this package
// stops at metadata parsing and descriptor construction.
//
// Plugin scripts use the ".eqs" extension ("embedded query script"), an
// arbitrary but consistent convention chosen since spec.md does not specify
// one (see DESIGN.md, Open Questions).
package plugin
