package starlarkengine

import (
	"github.com/bazelbuild/buildtools/build"
	"go.starlark.net/starlark"
)

// Format renders v as Starlark source.
func Format(v starlark.Value) string {
	return build.FormatString(ConvValue(v))
}

// ConvValue converts a Starlark value to a buildtools expression. Values
// without a literal form (functions, modules) become their String().
func ConvValue(value starlark.Value) build.Expr {
	switch t := value.(type) {
	case starlark.NoneType, starlark.Bool:
		return &build.Ident{Name: t.String()}
	case starlark.Int, starlark.Float:
		return &build.LiteralExpr{Token: t.String()}
	case starlark.String:
		return &build.StringExpr{Value: t.GoString()}
	case *starlark.List:
		list := &build.ListExpr{}
		for i := 0; i < t.Len(); i++ {
			list.List = append(list.List, ConvValue(t.Index(i)))
		}
		return list
	case starlark.Tuple:
		tuple := &build.TupleExpr{}
		for _, elem := range t {
			tuple.List = append(tuple.List, ConvValue(elem))
		}
		return tuple
	case *starlark.Dict:
		dict := &build.DictExpr{}
		for _, item := range t.Items() {
			dict.List = append(dict.List, &build.KeyValueExpr{
				Key:   ConvValue(item[0]),
				Value: ConvValue(item[1]),
			})
		}
		return dict
	}
	return &build.LiteralExpr{Token: value.String()}
}
