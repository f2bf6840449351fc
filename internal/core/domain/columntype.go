package domain

// ColumnKind identifies the storage kind of a table column.
type ColumnKind int

// Column kinds. The media kinds (Image, Video, Audio) require either a local
// file path or a public URL projection to transmit to the annotation server.
const (
	KindInvalid ColumnKind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindJSON
	KindTimestamp
	KindImage
	KindVideo
	KindAudio
)

// String returns the kind name.
func (k ColumnKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindJSON:
		return "json"
	case KindTimestamp:
		return "timestamp"
	case KindImage:
		return "image"
	case KindVideo:
		return "video"
	case KindAudio:
		return "audio"
	default:
		return "invalid"
	}
}

// ColumnType is the declared type of a table column or remote field.
type ColumnType struct {
	// Kind is the column kind.
	Kind ColumnKind

	// Nullable indicates the column admits null values.
	Nullable bool
}

// IsMedia reports whether the column holds media content.
func (t ColumnType) IsMedia() bool {
	switch t.Kind {
	case KindImage, KindVideo, KindAudio:
		return true
	default:
		return false
	}
}

// String returns the type name, with a "?" suffix when nullable.
func (t ColumnType) String() string {
	if t.Nullable {
		return t.Kind.String() + "?"
	}
	return t.Kind.String()
}
