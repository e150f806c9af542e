package importer

// error_messages.go maps load errors to user-facing messages with codes for
// support reference.
//
//	IMP001 - File not found
//	IMP002 - File too large
//	IMP003 - Empty file
//	IMP004 - Header without data
//	IMP005 - Non-numeric value
//	IMP006 - Invalid separator
//	IMP007 - Inconsistent columns
//	IMP008 - Unreadable workbook
//	IMP009 - Import cancelled
//	IMP010 - Too many concurrent imports
//	ERR000 - Anything else

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/JonMunkholm/tsimport/internal/tabular"
)

// UserMessage is an error explained for the person who triggered the import.
type UserMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Detail  string `json:"detail,omitempty"`
}

type errorMapping struct {
	target   error
	patterns []string
	msg      UserMessage
}

var errorMappings = []errorMapping{
	{target: fs.ErrNotExist, msg: UserMessage{Code: "IMP001", Message: "File not found", Action: "Check the file path and try again"}},
	{target: tabular.ErrFileTooLarge, msg: UserMessage{Code: "IMP002", Message: "File exceeds the maximum size limit", Action: "Split the file into smaller parts"}},
	{target: tabular.ErrEmptyFile, msg: UserMessage{Code: "IMP003", Message: "The file is empty", Action: "Select a file that contains data rows"}},
	{target: tabular.ErrNoDataRows, msg: UserMessage{Code: "IMP004", Message: "Only a header row was found", Action: "Add data rows or disable the header option"}},
	{patterns: []string{"non-numeric value"}, msg: UserMessage{Code: "IMP005", Message: "Non-numeric values found", Action: "Check the header option and the missing value entry"}},
	{patterns: []string{"non-finite value"}, msg: UserMessage{Code: "IMP005", Message: "Infinite values found", Action: "Replace them or enter them as the missing value"}},
	{target: tabular.ErrInvalidSeparator, msg: UserMessage{Code: "IMP006", Message: "The column separator is not valid", Action: "Leave the separator empty for automatic detection"}},
	{patterns: []string{"expected", "fields, saw"}, msg: UserMessage{Code: "IMP007", Message: "Rows have more columns than the header", Action: "Check the column separator"}},
	{patterns: []string{"open workbook", "read sheet"}, msg: UserMessage{Code: "IMP008", Message: "The workbook could not be read", Action: "Save the file as .xlsx or export it as CSV"}},
	{target: context.Canceled, msg: UserMessage{Code: "IMP009", Message: "Import was cancelled", Action: "Start the import again"}},
	{target: ErrTooManyImports, msg: UserMessage{Code: "IMP010", Message: "The server is busy with other imports", Action: "Wait a moment and try again"}},
}

var defaultMessage = UserMessage{Code: "ERR000", Message: "The file could not be loaded", Action: "Check the import options and try again"}

// MapError returns the user message for err. nil maps to the zero UserMessage.
// Detail always carries the technical error text.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	text := err.Error()

	for _, m := range errorMappings {
		if m.target != nil && errors.Is(err, m.target) {
			return withDetail(m.msg, text)
		}
		if len(m.patterns) > 0 && containsAll(text, m.patterns) {
			return withDetail(m.msg, text)
		}
	}
	return withDetail(defaultMessage, text)
}

func withDetail(m UserMessage, detail string) UserMessage {
	m.Detail = detail
	return m
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
