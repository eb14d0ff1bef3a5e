package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/manifest.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is one reason a manifest was rejected.
type ValidationIssue struct {
	Path    string // JSON pointer of the offending field, e.g. "/name"
	Message string // what the author has to change
	Keyword string // schema keyword that failed
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("manifest.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("manifest.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate validates raw manifest JSON against the manifest schema.
// The error return is for malformed JSON or schema compilation failures.
// Validation issues are returned in the ValidationResult.
func Validate(data []byte) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	return &ValidationResult{
		Valid:  false,
		Issues: extractIssues(validationErr),
	}, nil
}

// fieldHints replaces the generic schema text for mistakes manifest authors
// make most often. Keys are field|keyword.
var fieldHints = map[string]string{
	"name|required":     "manifest must declare a name",
	"name|type":         "name must be a string",
	"name|minLength":    "name must not be empty",
	"name|pattern":      "name must contain a visible character",
	"id|type":           "id must be a string",
	"id|minLength":      "id must not be empty",
	"id|pattern":        "id must not contain a path separator",
	"id|not":            `id must not be "." or ".."`,
	"version|type":      `version must be a string such as "1.2.0"`,
	"version|minLength": "version must not be empty when present",
}

// extractIssues flattens the error tree into one issue per failing field
// and keyword.
func extractIssues(ve *jsonschema.ValidationError) []ValidationIssue {
	var issues []ValidationIssue
	seen := make(map[string]bool)
	walkLeaves(ve, func(leaf *jsonschema.ValidationError) {
		for _, issue := range describeLeaf(leaf) {
			key := issue.Path + "|" + issue.Keyword
			if !seen[key] {
				seen[key] = true
				issues = append(issues, issue)
			}
		}
	})
	if len(issues) == 0 {
		return []ValidationIssue{{Message: ve.Error()}}
	}
	return issues
}

func walkLeaves(ve *jsonschema.ValidationError, visit func(*jsonschema.ValidationError)) {
	if len(ve.Causes) == 0 {
		visit(ve)
		return
	}
	for _, cause := range ve.Causes {
		walkLeaves(cause, visit)
	}
}

// describeLeaf turns a leaf error into issues. A missing required property
// is reported against the property itself rather than its parent object.
func describeLeaf(ve *jsonschema.ValidationError) []ValidationIssue {
	if ve.ErrorKind == nil {
		return nil
	}
	kwPath := ve.ErrorKind.KeywordPath()
	if len(kwPath) == 0 {
		return nil
	}
	keyword := kwPath[len(kwPath)-1]
	if keyword == "allOf" || keyword == "$ref" {
		return nil
	}

	if req, ok := ve.ErrorKind.(*kind.Required); ok {
		issues := make([]ValidationIssue, 0, len(req.Missing))
		for _, field := range req.Missing {
			issues = append(issues, fieldIssue(field, keyword, fmt.Sprintf("missing property %q", field)))
		}
		return issues
	}

	field := strings.Join(ve.InstanceLocation, "/")
	issue := fieldIssue(field, keyword, ve.ErrorKind.LocalizedString(printer))
	if field == "" {
		issue.Path = ""
		issue.Message = "manifest must be a JSON object: " + issue.Message
	}
	return []ValidationIssue{issue}
}

func fieldIssue(field, keyword, fallback string) ValidationIssue {
	msg, ok := fieldHints[field+"|"+keyword]
	if !ok {
		msg = fallback
	}
	return ValidationIssue{Path: "/" + field, Message: msg, Keyword: keyword}
}
