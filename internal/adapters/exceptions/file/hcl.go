package file

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

const exceptionBlockType = "exception"

var documentSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{{Type: exceptionBlockType}},
}

// decodeHCL reads a file of exception blocks. Document-level problems are
// errors; a broken block becomes an error element so the store marks that
// record malformed without rejecting the document.
func decodeHCL(raw []byte, filename string) ([]any, error) {
	f, diags := hclparse.NewParser().ParseHCL(raw, filename)
	if diags.HasErrors() {
		return nil, diags
	}
	content, diags := f.Body.Content(documentSchema)
	if diags.HasErrors() {
		return nil, diags
	}

	records := make([]any, 0, len(content.Blocks))
	for i, block := range content.Blocks {
		records = append(records, decodeBlock(i, block))
	}
	return records, nil
}

func decodeBlock(index int, block *hcl.Block) any {
	attrs, diags := block.Body.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("exception block %d: %s", index, diags.Error())
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	record := make(map[string]any, len(attrs))
	for _, name := range names {
		val, diags := attrs[name].Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("exception block %d: attribute %q: %s", index, name, diags.Error())
		}
		str, err := convert.Convert(val, cty.String)
		if err != nil || str.IsNull() || !str.IsKnown() {
			return fmt.Errorf("exception block %d: attribute %q must be a string", index, name)
		}
		record[name] = str.AsString()
	}
	return record
}
