package ir

import (
	"fmt"
	"io"
	"strings"
)

// Fprint writes a readable dump of the declaration tree, mainly for the CLI
// and debugging.
func Fprint(w io.Writer, m *Module) error {
	if m == nil {
		return nil
	}
	if _, err := fmt.Fprintf(w, "module %s\n", m.Name); err != nil {
		return err
	}
	for _, root := range m.Roots {
		if err := fprintDecl(w, m, root, 1); err != nil {
			return err
		}
	}
	return nil
}

func fprintDecl(w io.Writer, m *Module, id DeclID, depth int) error {
	decl := m.Decls.Get(id)
	if decl == nil {
		return nil
	}
	indent := strings.Repeat("  ", depth)
	line := fmt.Sprintf("%s%s %s [%s %s]", indent, decl.Kind, decl.Name, decl.Visibility, decl.Modality)
	if labels := decl.Flags.Strings(); len(labels) != 0 {
		line += " {" + strings.Join(labels, ",") + "}"
	}
	if decl.Origin != OriginUserCode {
		line += " <" + decl.Origin.String() + ">"
	}
	if decl.Body != nil {
		target := "?"
		if t := m.Decls.Get(decl.Body.Target); t != nil {
			target = t.Name
		}
		line += fmt.Sprintf(" => %s %s", decl.Body.Dispatch, target)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	for _, member := range decl.Members {
		if err := fprintDecl(w, m, member, depth+1); err != nil {
			return err
		}
	}
	return nil
}
