package services

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/variantlabs/annosync/internal/core/domain"
)

// rootTag is the required container element of a label config.
const rootTag = "view"

// varSigil prefixes a value attribute that binds an element to a schema
// variable. Elements without it (static content, choice lists) carry no
// input field and are skipped.
const varSigil = "$"

// labelTagTypes is the closed table of label config tags that declare input
// fields, mapped to their column types. Tags are matched case-insensitively.
var labelTagTypes = map[string]domain.ColumnType{
	"text":  {Kind: domain.KindString},
	"image": {Kind: domain.KindImage},
	"video": {Kind: domain.KindVideo},
	"audio": {Kind: domain.KindAudio},
}

// configElement is the generic decoded form of a label config element.
type configElement struct {
	XMLName  xml.Name
	Value    string          `xml:"value,attr"`
	Children []configElement `xml:",any"`
}

// ParseLabelConfig extracts the declared input fields from a project's XML
// label config: every direct child of the root element whose value attribute
// names a schema variable. The result maps variable names (sigil stripped)
// to column types. A duplicate variable name keeps its last occurrence.
func ParseLabelConfig(config string) (map[string]domain.ColumnType, error) {
	var root configElement
	if err := xml.Unmarshal([]byte(config), &root); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSchema, err)
	}
	if !strings.EqualFold(root.XMLName.Local, rootTag) {
		return nil, fmt.Errorf("%w: root element must be `View`, got `%s`",
			domain.ErrSchema, root.XMLName.Local)
	}

	fields := make(map[string]domain.ColumnType)
	for _, el := range root.Children {
		if !strings.HasPrefix(el.Value, varSigil) {
			continue
		}
		colType, ok := labelTagTypes[strings.ToLower(el.XMLName.Local)]
		if !ok {
			return nil, fmt.Errorf("%w: unsupported data type `%s`",
				domain.ErrSchema, el.XMLName.Local)
		}
		fields[strings.TrimPrefix(el.Value, varSigil)] = colType
	}
	return fields, nil
}
