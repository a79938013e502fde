package visitors

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/calumari/codama/koroks"
	"github.com/calumari/codama/nodes"
)

var (
	kindStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	identStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	nodeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// DebugVisitor prints one line per korok: its kind, its identifier when it
// has one and the JSON of its current node, indented by depth.
type DebugVisitor struct {
	*UniformVisitor
	w     io.Writer
	color bool
	depth int
	err   error
}

// Debug returns a visitor printing the tree to w. Styles are applied when
// color is true.
func Debug(w io.Writer, color bool) *DebugVisitor {
	d := &DebugVisitor{w: w, color: color}
	d.UniformVisitor = Uniform(func(k koroks.Korok, children func() error) error {
		d.line(k)
		d.depth++
		err := children()
		d.depth--
		return err
	})
	return d
}

// Err returns the first write error, if any.
func (d *DebugVisitor) Err() error { return d.err }

func (d *DebugVisitor) line(k koroks.Korok) {
	if d.err != nil {
		return
	}
	var b strings.Builder
	b.WriteString(strings.Repeat("  ", d.depth))
	b.WriteString(d.style(kindStyle, KindName(k)))
	if ident := identOf(k); ident != "" {
		b.WriteByte(' ')
		b.WriteString(d.style(identStyle, ident))
	}
	if n := k.GetNode(); n != nil {
		data, err := nodes.Marshal(n)
		if err != nil {
			data = []byte(fmt.Sprintf("<%v>", err))
		}
		b.WriteString(": ")
		b.WriteString(d.style(nodeStyle, string(data)))
	}
	b.WriteByte('\n')
	_, d.err = io.WriteString(d.w, b.String())
}

func (d *DebugVisitor) style(s lipgloss.Style, text string) string {
	if !d.color {
		return text
	}
	return s.Render(text)
}

// KindName names the kind of a korok, `struct` or `field`.
func KindName(k koroks.Korok) string {
	switch k.(type) {
	case *koroks.RootKorok:
		return "root"
	case *koroks.CrateKorok:
		return "crate"
	case *koroks.ModuleKorok:
		return "module"
	case *koroks.FileModuleKorok:
		return "file_module"
	case *koroks.StructKorok:
		return "struct"
	case *koroks.EnumKorok:
		return "enum"
	case *koroks.EnumVariantKorok:
		return "enum_variant"
	case *koroks.FieldsKorok:
		return "fields"
	case *koroks.FieldKorok:
		return "field"
	case *koroks.TypeKorok:
		return "type"
	case *koroks.ConstKorok:
		return "const"
	case *koroks.ImplKorok:
		return "impl"
	case *koroks.ImplItemKorok:
		return "impl_item"
	case *koroks.UnsupportedItemKorok:
		return "unsupported_item"
	}
	return fmt.Sprintf("%T", k)
}

func identOf(k koroks.Korok) string {
	switch k := k.(type) {
	case koroks.ItemKorok:
		return k.Ident()
	case *koroks.CrateKorok:
		if k.Store != nil {
			return k.Store.Name()
		}
	case *koroks.EnumVariantKorok:
		return k.Ident()
	case *koroks.FieldKorok:
		return k.Ident()
	case *koroks.TypeKorok:
		return k.Ast.String()
	}
	return ""
}
