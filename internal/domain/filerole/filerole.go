// Package filerole recognises the DDD role of a source file from its folder
// and file name.
package filerole

import (
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
	"github.com/openkraft/layerlint/internal/domain"
)

// UseCaseVerbs are the leading words accepted for use-case names.
var UseCaseVerbs = map[string]bool{
	"Create": true, "Get": true, "Update": true, "Delete": true, "Remove": true,
	"Find": true, "List": true, "Search": true, "Register": true, "Add": true,
	"Cancel": true, "Approve": true, "Reject": true, "Place": true, "Submit": true,
	"Send": true, "Process": true, "Calculate": true, "Validate": true,
	"Generate": true, "Import": true, "Export": true, "Sync": true, "Publish": true,
	"Archive": true, "Assign": true, "Authenticate": true, "Login": true,
	"Logout": true, "Change": true, "Reset": true, "Confirm": true, "Verify": true,
	"Complete": true, "Close": true, "Open": true, "Pay": true, "Refund": true,
	"Ship": true, "Schedule": true, "Activate": true, "Deactivate": true,
	"Invite": true, "Upload": true, "Download": true, "Fetch": true, "Load": true,
	"Save": true, "Set": true, "Check": true, "Handle": true, "Notify": true,
}

var repositoryInterfaceRe = regexp.MustCompile(`^I[A-Z]\w*Repository$`)

// useCaseFolders name folders holding application use cases.
var useCaseFolders = []string{"use-cases", "usecases", "use_cases", "usecase", "use-case"}

// BaseName returns the file name without directory and final extension.
func BaseName(p string) string {
	base := path.Base(strings.ReplaceAll(p, `\`, "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// HasFolder reports whether any directory segment of p equals one of names,
// case-insensitively.
func HasFolder(p string, names ...string) bool {
	segs := strings.Split(strings.ReplaceAll(p, `\`, "/"), "/")
	for _, seg := range segs[:len(segs)-1] {
		for _, n := range names {
			if strings.EqualFold(seg, n) {
				return true
			}
		}
	}
	return false
}

// IsPascalCase reports whether name starts upper-case and contains only
// letters and digits.
func IsPascalCase(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if i == 0 && !unicode.IsUpper(r) {
			return false
		}
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Words splits a PascalCase or camelCase name.
func Words(name string) []string {
	return camelcase.Split(name)
}

// IsCompound reports whether name is PascalCase with at least two words.
func IsCompound(name string) bool {
	return IsPascalCase(name) && len(Words(name)) >= 2
}

// IsVerbNoun reports whether name is PascalCase, has at least two words and
// starts with a known use-case verb.
func IsVerbNoun(name string) bool {
	if !IsCompound(name) {
		return false
	}
	return UseCaseVerbs[Words(name)[0]]
}

// IsRepositoryInterfaceName matches I-prefixed repository interface names.
func IsRepositoryInterfaceName(name string) bool {
	return repositoryInterfaceRe.MatchString(name)
}

// IsRepositoryInterface reports whether a file declares a domain repository
// port: a Domain file named like IUserRepository, or a Domain file under a
// repositories folder whose name mentions Repository.
func IsRepositoryInterface(p string, layer domain.Layer) bool {
	if layer != domain.LayerDomain {
		return false
	}
	name := BaseName(p)
	if IsRepositoryInterfaceName(name) {
		return true
	}
	return HasFolder(p, "repositories") && strings.Contains(strings.ToLower(name), "repository")
}

// IsUseCaseFolder reports whether p sits under a use-case folder.
func IsUseCaseFolder(p string) bool {
	return HasFolder(p, useCaseFolders...)
}

// IsUseCase reports whether a file is an application use case: an
// Application file under a use-case folder named <Verb><Noun>, optionally
// suffixed with UseCase.
func IsUseCase(p string, layer domain.Layer) bool {
	return layer == domain.LayerApplication && IsUseCaseFolder(p) &&
		IsVerbNoun(strings.TrimSuffix(BaseName(p), "UseCase"))
}
