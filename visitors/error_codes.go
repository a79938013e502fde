package visitors

import (
	"github.com/calumari/codama/attributes"
	"github.com/calumari/codama/errors"
	"github.com/calumari/codama/koroks"
	"github.com/calumari/codama/nodes"
)

// SetErrors turns enums deriving CodamaErrors into program errors, one per
// variant. Codes come from `error(code, ..)`, else the explicit discriminant,
// else the previous code plus one starting at zero. Messages come from
// `error(.., "message")`, else the first string of an `#[error("..")]`
// attribute.
type SetErrors struct{}

func (v *SetErrors) VisitEnum(k *koroks.EnumKorok) error {
	if !k.Attributes.HasDerive(ErrorsDerives...) {
		return nil
	}
	program := &nodes.ProgramNode{}
	var (
		errs errors.List
		next uint64
	)
	for _, variant := range k.Variants {
		code := next
		if d, err := variantDiscriminator(variant); err != nil {
			errs.Add(err)
		} else if d != nil {
			code = *d
		}
		message := errorMessage(variant.Attributes)
		if d, ok := attributes.Find[*attributes.ErrorDirective](variant.Attributes); ok {
			if d.Code != nil {
				code = *d.Code
			}
			if d.Message != "" {
				message = d.Message
			}
		}
		next = code + 1

		name := nodes.Camel(variant.Ident())
		if n, ok := attributes.Find[*attributes.NameDirective](variant.Attributes); ok {
			name = n.Name
		}
		program.Errors = append(program.Errors, &nodes.ErrorNode{
			Name:    name,
			Code:    code,
			Message: message,
			Docs:    koroks.Docs(variant),
		})
	}
	if err := errs.Err(); err != nil {
		return err
	}
	k.Node = program
	return nil
}

// errorMessage returns the format string of `#[error("..")]`.
func errorMessage(attrs attributes.Attributes) string {
	u, ok := attrs.Unsupported("error")
	if !ok {
		return ""
	}
	msg, _ := firstString(u.Body)
	return msg
}
