package jobsift

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Attribute keys the model is asked to produce.
const (
	KeyPythonRequired            = "python_required"
	KeyExperienceRequired        = "experience_required"
	KeyOtherProgrammingLanguages = "other_programming_languages"
	KeyRequiredTechnologies      = "required_technologies"
	KeyNiceToKnow                = "nice_to_know"
)

// ExtractionPrompt is the instruction sent with every description.
const ExtractionPrompt = `The provided message contains a job posting. Based on the job description, extract the following information. The information required and the key names are:
- Is knowing Python required? Mark it as true or false (key: python_required)
- Is previous experience required? Mark it as a float with the number of years of experience required. If not required, mark it as an empty string (key: experience_required)
- Other required programming languages (e.g. C++, Java). List only the REQUIRED languages, leave out nice to know languages (key: other_programming_languages)
- Other required technologies (e.g. Databricks, dbt, Spark). List only the REQUIRED technologies, leave out nice to know technologies (key: required_technologies)
- Nice to know technologies and programming languages. Prefix technologies with "Tech: " and programming languages with "Lang: " (key: nice_to_know)

Do not add any comments or unnecessary text. Reply with a single JSON object using the keys above. If you cannot find information for a key, use an empty string or an empty list depending on the expected type. The output must be valid JSON.`

// Experience is the prior experience a posting asks for.
// Required is false when the model reported that no experience is needed.
type Experience struct {
	Years    float64
	Required bool
}

// String returns the years as a decimal, or "" when no experience is required.
func (e Experience) String() string {
	if !e.Required {
		return ""
	}
	return strconv.FormatFloat(e.Years, 'f', -1, 64)
}

// ParseExperience parses the persisted form produced by Experience.String.
func ParseExperience(s string) (Experience, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Experience{}, nil
	}
	years, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Experience{}, fmt.Errorf("invalid experience %q: %w", s, err)
	}
	return Experience{Years: years, Required: true}, nil
}

// Attributes are the model-derived fields for one job description.
// A nil field means the model did not supply that key; no defaults are filled in.
type Attributes struct {
	URL                       string
	PythonRequired            *bool
	ExperienceRequired        *Experience
	OtherProgrammingLanguages []string
	RequiredTechnologies      []string
	NiceToKnow                []string
}

// AttributeExtractor derives structured attributes from a record's description.
type AttributeExtractor interface {
	// Extract issues one extraction request for the record.
	// Returns (nil, nil) when the record has no description to extract from.
	// Failures are returned as *ExtractError naming the failing stage.
	Extract(ctx context.Context, rec *JobRecord) (*Attributes, error)
}

// ExtractStage names a step of the response validation pipeline.
type ExtractStage string

// Validation stages, in the order they are checked.
const (
	StageTransport ExtractStage = "transport"
	StageStatus    ExtractStage = "status"
	StageEnvelope  ExtractStage = "envelope"
	StageMessage   ExtractStage = "message"
	StagePayload   ExtractStage = "payload"
	StageSchema    ExtractStage = "schema"
)

// ExtractError reports which validation stage rejected a model response.
type ExtractError struct {
	Stage ExtractStage
	Err   error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Stage, e.Err)
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}

// ExtractErrorf returns an ExtractError for stage with a formatted cause.
func ExtractErrorf(stage ExtractStage, format string, args ...any) *ExtractError {
	return &ExtractError{Stage: stage, Err: fmt.Errorf(format, args...)}
}

// StageOf returns the stage of an ExtractError in err's chain, or "" if there is none.
func StageOf(err error) ExtractStage {
	var e *ExtractError
	if errors.As(err, &e) {
		return e.Stage
	}
	return ""
}

// DecodeAttributes validates a model payload and converts it to Attributes for url.
// Markdown code fences around the JSON are tolerated. Payloads that are not a
// JSON object fail the payload stage; known keys with unexpected types, or an
// object with none of the known keys, fail the schema stage.
func DecodeAttributes(url string, content string) (*Attributes, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(StripCodeFence(content)), &fields); err != nil {
		return nil, &ExtractError{Stage: StagePayload, Err: err}
	}
	if fields == nil {
		return nil, ExtractErrorf(StagePayload, "payload is not a JSON object")
	}

	attrs := &Attributes{URL: url}
	known := 0

	if raw, ok := fields[KeyPythonRequired]; ok {
		known++
		v, err := decodeBool(raw)
		if err != nil {
			return nil, schemaError(KeyPythonRequired, err)
		}
		attrs.PythonRequired = v
	}

	if raw, ok := fields[KeyExperienceRequired]; ok {
		known++
		v, err := decodeExperience(raw)
		if err != nil {
			return nil, schemaError(KeyExperienceRequired, err)
		}
		attrs.ExperienceRequired = v
	}

	lists := []struct {
		key string
		dst *[]string
	}{
		{KeyOtherProgrammingLanguages, &attrs.OtherProgrammingLanguages},
		{KeyRequiredTechnologies, &attrs.RequiredTechnologies},
		{KeyNiceToKnow, &attrs.NiceToKnow},
	}
	for _, l := range lists {
		raw, ok := fields[l.key]
		if !ok {
			continue
		}
		known++
		v, err := decodeList(raw)
		if err != nil {
			return nil, schemaError(l.key, err)
		}
		*l.dst = v
	}

	if known == 0 {
		return nil, ExtractErrorf(StageSchema, "payload has none of the expected keys")
	}
	return attrs, nil
}

// StripCodeFence removes a surrounding markdown code fence, if any, together
// with its info string ("json", "JSON", "jsonc" and so on).
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexAny(s, "\n{["); i >= 0 {
		s = s[i:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func schemaError(key string, err error) *ExtractError {
	return ExtractErrorf(StageSchema, "%s: %v", key, err)
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// decodeEmptyString reports whether raw is the JSON string "".
func decodeEmptyString(raw json.RawMessage) bool {
	var s string
	return json.Unmarshal(raw, &s) == nil && strings.TrimSpace(s) == ""
}

func decodeBool(raw json.RawMessage) (*bool, error) {
	if isNull(raw) || decodeEmptyString(raw) {
		return nil, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("expected boolean, got %s", raw)
	}
	return &b, nil
}

func decodeExperience(raw json.RawMessage) (*Experience, error) {
	if isNull(raw) {
		return nil, nil
	}
	var years float64
	if err := json.Unmarshal(raw, &years); err == nil {
		return &Experience{Years: years, Required: true}, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("expected number or string, got %s", raw)
	}
	exp, err := ParseExperience(s)
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

func decodeList(raw json.RawMessage) ([]string, error) {
	if isNull(raw) {
		return nil, nil
	}
	if decodeEmptyString(raw) {
		return []string{}, nil
	}
	var items []string
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("expected list of strings, got %s", raw)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out, nil
}
