// Package encode serializes [lang.Value] trees as YAML, JSON, MessagePack, or
// XML.
//
// Struct field order is preserved wherever the format allows it. YAML and
// JSON keep insertion order unless [Options.SortKeys] is set; MessagePack
// always writes keys in canonical sorted order. XML writes fields as child
// elements in the same order, repeating a field's element for each item of a
// list; other list items are wrapped in [ItemTag] elements.
package encode
