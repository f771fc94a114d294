package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"ccswitch/config/models"
	"ccswitch/internal/utils"
)

// ReservedAlias is the alias that selects the official API on the command line
const ReservedAlias = "cc"

const officialHost = "api.anthropic.com"

const officialTokenPrefix = "sk-ant-api03-"

// AliasError describes why an alias was rejected
type AliasError struct {
	Alias  string
	Reason string
}

func (e *AliasError) Error() string {
	return e.Reason
}

// ValidateAlias checks that alias is non-empty, not the reserved name and
// free of whitespace
func ValidateAlias(alias string) error {
	if alias == "" {
		return &AliasError{Alias: alias, Reason: "Alias name cannot be empty"}
	}
	if alias == ReservedAlias {
		return &AliasError{Alias: alias, Reason: "Alias name 'cc' is reserved and cannot be used"}
	}
	if strings.IndexFunc(alias, unicode.IsSpace) >= 0 {
		return &AliasError{Alias: alias, Reason: "Alias name cannot contain whitespace"}
	}
	return nil
}

// ValidateURL checks if a URL is valid
func ValidateURL(url string) error {
	if _, err := utils.ParseEndpoint(url); err != nil {
		return fmt.Errorf("invalid URL format: %s (%w)", url, err)
	}
	return nil
}

// ValidateProfile validates a profile before it is stored
func ValidateProfile(p models.Profile) error {
	if err := ValidateAlias(p.AliasName); err != nil {
		return err
	}
	if strings.TrimSpace(p.Token) == "" {
		return fmt.Errorf("token cannot be empty")
	}
	if strings.TrimSpace(p.URL) == "" {
		return fmt.Errorf("url cannot be empty")
	}
	return nil
}

// ParseOptionalUint32 parses a numeric field. "0" clears the field and
// yields nil, as does an empty string.
func ParseOptionalUint32(input string) (*uint32, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(input, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid number '%s': must be a non-negative integer", input)
	}
	if v == 0 {
		return nil, nil
	}
	n := uint32(v)
	return &n, nil
}

// TokenFormatWarning returns a warning when the token prefix does not fit the
// endpoint, or "" when nothing looks off
func TokenFormatWarning(token, url string) string {
	official := strings.HasPrefix(token, officialTokenPrefix)
	if strings.Contains(url, officialHost) {
		if !official {
			return "Warning: For official Anthropic API (api.anthropic.com), token should start with 'sk-ant-api03-'"
		}
		return ""
	}
	if official {
		return "Warning: Using official Claude token format with non-official API endpoint"
	}
	return ""
}
