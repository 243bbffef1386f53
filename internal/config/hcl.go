package config

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
)

// hclKeys maps HCL attribute names to document keys.
var hclKeys = map[string]string{
	"content_patterns": KeyContentPatterns,
	"theme_extensions": KeyThemeExtensions,
	"plugins":          KeyPlugins,
}

func decodeHCL(path string, data []byte) (map[string]any, error) {
	file, diags := hclsyntax.ParseConfig(data, path, hcl.InitialPos)
	if diags.HasErrors() {
		return nil, diagError(path, "invalid HCL", diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diagError(path, "invalid HCL", diags)
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	doc := make(map[string]any, len(attrs))
	for _, name := range names {
		attr := attrs[name]
		key, ok := hclKeys[name]
		if !ok {
			return nil, rangeError(path, attr.NameRange, "unknown attribute %q", name)
		}

		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diagError(path, fmt.Sprintf("cannot evaluate %q", name), diags)
		}

		v, err := ctyToGo(val)
		if err != nil {
			return nil, rangeError(path, attr.Expr.Range(), "%s: %v", name, err)
		}
		doc[key] = v
	}
	return doc, nil
}

// ctyToGo converts a cty value into plain Go values. Whole numbers become
// int64, everything else float64. Null converts to nil.
func ctyToGo(val cty.Value) (any, error) {
	if !val.IsKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	if val.IsNull() {
		return nil, nil
	}

	ty := val.Type()
	switch {
	case ty == cty.String:
		return val.AsString(), nil
	case ty == cty.Bool:
		return val.True(), nil
	case ty == cty.Number:
		bf := val.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == big.Exact {
				return i, nil
			}
		}
		f, _ := bf.Float64()
		return f, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any)
		for it := val.ElementIterator(); it.Next(); {
			k, v := it.Element()
			gv, err := ctyToGo(v)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = gv
		}
		return out, nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, v := it.Element()
			gv, err := ctyToGo(v)
			if err != nil {
				return nil, err
			}
			out = append(out, gv)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported type %s", ty.FriendlyName())
}

func diagError(path, detail string, diags hcl.Diagnostics) *MalformedConfigError {
	e := &MalformedConfigError{Path: path, Detail: detail, Err: diags}
	for _, d := range diags {
		if d.Severity == hcl.DiagError && d.Subject != nil {
			e.Line, e.Column = d.Subject.Start.Line, d.Subject.Start.Column
			break
		}
	}
	return e
}

func rangeError(path string, rng hcl.Range, format string, args ...any) *MalformedConfigError {
	e := malformed(path, format, args...)
	e.Line, e.Column = rng.Start.Line, rng.Start.Column
	return e
}
