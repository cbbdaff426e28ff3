package torre

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Fluency is a language proficiency level
type Fluency string

const (
	FluencyBasic          Fluency = "basic"
	FluencyConversational Fluency = "conversational"
	FluencyFluent         Fluency = "fluent"
	FluencyFullyFluent    Fluency = "fully-fluent"
	FluencyNative         Fluency = "native"
)

// Proficiency is a skill or role experience level
type Proficiency string

const (
	ProficiencyNovice       Proficiency = "novice"
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyExpert       Proficiency = "expert"
	ProficiencyMaster       Proficiency = "master"
)

// StatusCode is an opportunity lifecycle state
type StatusCode string

const (
	StatusOpen   StatusCode = "open"
	StatusClosed StatusCode = "closed"
	StatusDraft  StatusCode = "draft"
)

// Filter keys as they appear on the wire.
const (
	keyKeywords  = "keywords"
	keyLanguage  = "language"
	keySkillRole = "skill/role"
	keyStatus    = "status"
)

// Filter is one search predicate. The set of implementations is closed:
// Keywords, Language, SkillRole and Status. Each serializes as a single-key object.
type Filter interface {
	filterKey() string
}

// Keywords matches free text, optionally scoped to a locale.
type Keywords struct {
	Term   string `json:"term"`
	Locale string `json:"locale,omitempty"`
}

// Language requires a spoken language at a fluency level.
type Language struct {
	Term    string  `json:"term"`
	Fluency Fluency `json:"fluency"`
}

// SkillRole requires a skill or role at a proficiency level.
type SkillRole struct {
	Text        string      `json:"text"`
	Proficiency Proficiency `json:"proficiency"`
}

// Status restricts opportunities to a lifecycle state.
type Status struct {
	Code StatusCode `json:"code"`
}

func (Keywords) filterKey() string  { return keyKeywords }
func (Language) filterKey() string  { return keyLanguage }
func (SkillRole) filterKey() string { return keySkillRole }
func (Status) filterKey() string    { return keyStatus }

// Body types carry the inner object without the single-key MarshalJSON.
type (
	keywordsBody  Keywords
	languageBody  Language
	skillRoleBody SkillRole
	statusBody    Status
)

func (f Keywords) MarshalJSON() ([]byte, error)  { return singleKey(keyKeywords, keywordsBody(f)) }
func (f Language) MarshalJSON() ([]byte, error)  { return singleKey(keyLanguage, languageBody(f)) }
func (f SkillRole) MarshalJSON() ([]byte, error) { return singleKey(keySkillRole, skillRoleBody(f)) }
func (f Status) MarshalJSON() ([]byte, error)    { return singleKey(keyStatus, statusBody(f)) }

// singleKey renders {"key":body} without HTML escaping so terms reach the wire untouched.
func singleKey(key string, body any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	buf.WriteByte('{')
	if err := enc.Encode(key); err != nil {
		return nil, err
	}
	buf.Truncate(buf.Len() - 1)
	buf.WriteByte(':')
	if err := enc.Encode(body); err != nil {
		return nil, err
	}
	buf.Truncate(buf.Len() - 1)
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// ParseFilter decodes a single-key filter object such as {"status":{"code":"open"}}.
func ParseFilter(data []byte) (Filter, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("torre: filter must be an object: %w", err)
	}
	if len(obj) != 1 {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("torre: filter must have exactly one key, got %v", keys)
	}

	for key, body := range obj {
		switch key {
		case keyKeywords:
			var f keywordsBody
			if err := json.Unmarshal(body, &f); err != nil {
				return nil, fmt.Errorf("torre: %s filter: %w", key, err)
			}
			return Keywords(f), nil
		case keyLanguage:
			var f languageBody
			if err := json.Unmarshal(body, &f); err != nil {
				return nil, fmt.Errorf("torre: %s filter: %w", key, err)
			}
			return Language(f), nil
		case keySkillRole:
			var f skillRoleBody
			if err := json.Unmarshal(body, &f); err != nil {
				return nil, fmt.Errorf("torre: %s filter: %w", key, err)
			}
			return SkillRole(f), nil
		case keyStatus:
			var f statusBody
			if err := json.Unmarshal(body, &f); err != nil {
				return nil, fmt.Errorf("torre: %s filter: %w", key, err)
			}
			return Status(f), nil
		default:
			return nil, fmt.Errorf("torre: unknown filter %q", key)
		}
	}

	return nil, fmt.Errorf("torre: empty filter")
}

// Expression combines filters with and/or/not. Empty groups are omitted on the wire.
type Expression struct {
	And []Filter `json:"and,omitempty"`
	Or  []Filter `json:"or,omitempty"`
	Not []Filter `json:"not,omitempty"`
}

// IsEmpty reports whether no group carries a filter.
func (e Expression) IsEmpty() bool {
	return len(e.And) == 0 && len(e.Or) == 0 && len(e.Not) == 0
}

func (e *Expression) UnmarshalJSON(data []byte) error {
	var wire struct {
		And []json.RawMessage `json:"and"`
		Or  []json.RawMessage `json:"or"`
		Not []json.RawMessage `json:"not"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	var out Expression
	var err error
	if out.And, err = parseFilters("and", wire.And); err != nil {
		return err
	}
	if out.Or, err = parseFilters("or", wire.Or); err != nil {
		return err
	}
	if out.Not, err = parseFilters("not", wire.Not); err != nil {
		return err
	}

	*e = out
	return nil
}

func parseFilters(group string, raws []json.RawMessage) ([]Filter, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	out := make([]Filter, 0, len(raws))
	for i, raw := range raws {
		f, err := ParseFilter(raw)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", group, i, err)
		}
		out = append(out, f)
	}
	return out, nil
}
