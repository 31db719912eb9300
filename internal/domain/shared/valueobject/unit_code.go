package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/erp/uom/internal/domain/shared"
)

// MaxUnitCodeLength is the longest code a unit may carry.
const MaxUnitCodeLength = 20

// UnitCode identifies a unit of measure (e.g. "KG", "EA", "CTN").
// Codes are normalized to upper case with surrounding whitespace removed.
// The zero value is the empty code, which no catalog accepts.
type UnitCode string

// Common unit codes for convenience
const (
	UnitCodeEA  UnitCode = "EA"  // Each (commonly used count base unit)
	UnitCodeKG  UnitCode = "KG"  // Kilograms
	UnitCodeG   UnitCode = "G"   // Grams
	UnitCodeTON UnitCode = "TON" // Metric tonnes
	UnitCodeL   UnitCode = "L"   // Liters
	UnitCodeML  UnitCode = "ML"  // Milliliters
	UnitCodeCTN UnitCode = "CTN" // Carton
	UnitCodeBOX UnitCode = "BOX" // Box
)

// NewUnitCode normalizes and validates a raw unit code.
// Returns error if:
//   - the code is empty after trimming
//   - the code exceeds MaxUnitCodeLength characters
//   - the code contains inner whitespace or control characters
func NewUnitCode(raw string) (UnitCode, error) {
	code := normalizeUnitCode(raw)
	if code == "" {
		return "", shared.NewDomainError("INVALID_UNIT_CODE", "Unit code cannot be empty")
	}
	if len([]rune(code)) > MaxUnitCodeLength {
		return "", shared.NewDomainError("INVALID_UNIT_CODE",
			fmt.Sprintf("Unit code cannot exceed %d characters", MaxUnitCodeLength))
	}
	for _, r := range code {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return "", shared.NewDomainError("INVALID_UNIT_CODE", "Unit code cannot contain whitespace")
		}
	}
	return UnitCode(code), nil
}

// MustNewUnitCode creates a UnitCode and panics on error.
// Use only for constants and tests.
func MustNewUnitCode(raw string) UnitCode {
	code, err := NewUnitCode(raw)
	if err != nil {
		panic(err)
	}
	return code
}

func normalizeUnitCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// String returns the code as a plain string.
func (c UnitCode) String() string {
	return string(c)
}

// IsZero reports whether the code is empty.
func (c UnitCode) IsZero() bool {
	return c == ""
}

// Matches reports whether raw normalizes to this code.
func (c UnitCode) Matches(raw string) bool {
	return string(c) == normalizeUnitCode(raw)
}

// MarshalJSON implements json.Marshaler.
func (c UnitCode) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

// UnmarshalJSON implements json.Unmarshaler.
// An empty string decodes to the zero code so that validators can report it;
// any other value must be a valid code.
func (c *UnitCode) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if strings.TrimSpace(raw) == "" {
		*c = ""
		return nil
	}
	code, err := NewUnitCode(raw)
	if err != nil {
		return err
	}
	*c = code
	return nil
}

// Value implements driver.Valuer for database storage.
func (c UnitCode) Value() (driver.Value, error) {
	return string(c), nil
}

// Scan implements sql.Scanner for database retrieval.
func (c *UnitCode) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*c = ""
	case string:
		*c = UnitCode(normalizeUnitCode(v))
	case []byte:
		*c = UnitCode(normalizeUnitCode(string(v)))
	default:
		return fmt.Errorf("cannot scan %T into UnitCode", value)
	}
	return nil
}
