package settings

import (
	"reflect"
	"strings"
	"sync"
)

// Field describes one document field: its flat JSON name, primitive type,
// default value, and (for closed sets) the allowed values.
type Field struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Default any      `json:"default"`
	Enum    []string `json:"enum,omitempty"`
}

// Schema describes every field of the Configuration Document.
type Schema struct {
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// enumFields maps field names to their closed value sets. Kept next to the
// schema rather than parsed out of validate tags so the schema stays
// readable when the tags evolve.
var enumFields = map[string][]string{
	"lms_type":          {ProviderCanvas, ProviderMoodle},
	"lms_url_option":    {URLOptionPreset, URLOptionCustom},
	"lms_member_option": {MemberBoth, MemberEmail, MemberGitID},
	"directory_layout":  {LayoutByTeam, LayoutFlat, LayoutByTask},
	"active_tab":        {TabRoster, TabRepos},
}

var (
	schemaOnce   sync.Once
	cachedSchema Schema
)

// GetSchema returns the document schema, computed once per process.
func GetSchema() Schema {
	schemaOnce.Do(func() {
		cachedSchema = buildSchema()
	})
	return cachedSchema
}

func buildSchema() Schema {
	defaults := Defaults()
	schema := Schema{Title: "rosterbee settings"}
	collectFields(reflect.ValueOf(defaults), &schema.Fields)
	return schema
}

// collectFields walks the document struct, descending into the embedded
// groups so the result is flat, mirroring the persisted JSON.
func collectFields(v reflect.Value, out *[]Field) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := v.Field(i)
		if sf.Anonymous {
			collectFields(fv, out)
			continue
		}
		name := strings.Split(sf.Tag.Get("json"), ",")[0]
		if name == "" || name == "-" {
			continue
		}
		*out = append(*out, Field{
			Name:    name,
			Type:    jsonType(sf.Type.Kind()),
			Default: fv.Interface(),
			Enum:    enumFields[name],
		})
	}
}

func jsonType(k reflect.Kind) string {
	switch k {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	default:
		return "string"
	}
}
