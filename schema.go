package s1isp

import (
	"fmt"
	"reflect"

	stgpsr "github.com/yuin/stagparser"

	"github.com/sixy6e/go-s1isp/isp"
)

// FieldKind classifies one field of the output record schema: a header
// field carried verbatim, an enumerated code carried with its symbolic
// name, a derived physical quantity, or a nested sub-structure.
type FieldKind string

const (
	FieldRaw     FieldKind = "raw"
	FieldEnum    FieldKind = "enum"
	FieldDerived FieldKind = "derived"
	FieldNested  FieldKind = "nested"
)

// FieldDescription is one entry of a DescribeRecord() schema: a field
// name, its decoded Go type, and its kind.
type FieldDescription struct {
	Name string
	Type string
	Kind FieldKind
}

// describeStruct reflects over t's exported fields and reads the
// struct-tag-declared "kind" for each, defaulting to FieldRaw when a
// field carries no s1isp tag at all (plain numeric header fields).
func describeStruct(t any) []FieldDescription {
	defs, _ := stgpsr.ParseStruct(t, "s1isp")

	rt := reflect.TypeOf(t)
	if rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}

	out := make([]FieldDescription, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}

		kind := FieldRaw
		for _, d := range defs[f.Name] {
			if d.Name() == "kind" {
				if v, ok := d.Attribute("kind"); ok {
					kind = FieldKind(fmt.Sprint(v))
				}
			}
		}

		out = append(out, FieldDescription{
			Name: f.Name,
			Type: f.Type.String(),
			Kind: kind,
		})
	}
	return out
}

// DescribeRecord reports the stable output schema for a decoded Record:
// every Primary Header, Secondary Header, and derived field, in the order
// they're declared, each labelled raw/enum/derived/nested. This is the
// schema boundary a downstream tabular writer (CSV/HDF5/pickle, out of
// scope here) would consume to lay out its columns.
func DescribeRecord() []FieldDescription {
	fields := make([]FieldDescription, 0, 64)
	fields = append(fields, describeStruct(&isp.PrimaryHeader{})...)
	fields = append(fields, describeStruct(&isp.SecondaryHeader{})...)
	fields = append(fields, describeStruct(&isp.DerivedFields{})...)
	return fields
}

// FieldsByKind filters DescribeRecord's output down to one kind, e.g. the
// set of enumerated fields a caller wants to render symbolically.
func FieldsByKind(kind FieldKind) []FieldDescription {
	all := DescribeRecord()
	out := make([]FieldDescription, 0, len(all))
	for _, f := range all {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}
