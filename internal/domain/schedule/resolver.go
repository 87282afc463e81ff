package schedule

import (
	"strings"

	"github.com/diillson/arch-schedule-go/internal/domain/entity"
)

// Resolve reads the value at path from rec. Native objects walk a dotted path
// through nested properties; foreign elements take path as a single attribute
// name. Unit-bearing results come back as quantity values.
func Resolve(rec entity.AttributeSource, path string) (entity.Value, error) {
	switch rec.Kind() {
	case entity.ForeignRecord:
		return rec.ResolvePath(strings.TrimSpace(path))
	default:
		return rec.ResolvePath(path)
	}
}
