package encode

import (
	"github.com/goccy/go-yaml"

	"github.com/ardnew/strux/lang"
)

func marshalYAML(v *lang.Value, opts Options) ([]byte, error) {
	tree, err := yamlTree(v)
	if err != nil {
		return nil, err
	}

	yopts := []yaml.EncodeOption{yaml.UseLiteralStyleIfMultiline(true)}

	if opts.Indent == 0 {
		yopts = append(yopts, yaml.Flow(true))
	} else {
		yopts = append(yopts, yaml.Indent(opts.Indent), yaml.IndentSequence(true))
	}

	return yaml.MarshalWithOptions(tree, yopts...)
}

// yamlTree converts v into values go-yaml encodes directly, using
// [yaml.MapSlice] so struct fields keep their order.
func yamlTree(v *lang.Value) (any, error) {
	if v == nil {
		return nil, nil
	}

	switch v.Kind {
	case lang.KindNumber:
		return v.Number, nil

	case lang.KindText:
		return v.Text, nil

	case lang.KindList:
		out := make([]any, len(v.List))

		for i, item := range v.List {
			elem, err := yamlTree(item)
			if err != nil {
				return nil, err
			}

			out[i] = elem
		}

		return out, nil

	case lang.KindStruct:
		out := make(yaml.MapSlice, len(v.Fields))

		for i, f := range v.Fields {
			elem, err := yamlTree(f.Value)
			if err != nil {
				return nil, err
			}

			out[i] = yaml.MapItem{Key: f.Key, Value: elem}
		}

		return out, nil

	default:
		return nil, unknownKind(v)
	}
}
