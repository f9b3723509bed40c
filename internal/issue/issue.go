// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

// Issue identifiers.
const (
	NoScriptsFoundId Id = iota + 1
	ScriptDirNotFoundId
	DependencyNotFoundId
	DependencyCycleId
	InvalidDependencyPathId
	InvalidScriptOptionId
	MissingExportId
	ScriptExecutionFailedId
	ConfigLoadFailedId
	PermissionDeniedId
)

type (
	// Id identifies an issue.
	Id int

	// MarkdownMsg is guidance text in Markdown.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is long-form guidance for one class of failure.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

// Id returns the issue identifier.
func (i *Issue) Id() Id {
	return i.id
}

// MarkdownMsg returns the raw guidance.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// DocLinks returns a copy of the documentation links.
func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// ExtLinks returns a copy of the external links.
func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the guidance for the terminal using the glamour style at
// stylePath (a built-in style name such as "dark" or "notty" works too).
func (i *Issue) Render(stylePath string) (string, error) {
	var sb strings.Builder
	sb.WriteString(string(i.mdMsg))
	if links := append(i.DocLinks(), i.extLinks...); len(links) > 0 {
		sb.WriteString("\n\n## See also\n")
		for _, link := range links {
			sb.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(sb.String(), stylePath)
}

var (
	render = glamour.Render

	noScriptsFoundIssue = &Issue{
		id: NoScriptsFoundId,
		mdMsg: `
# No scripts found!

vss only found its built-in scripts, or none at all.

## Things you can try:
- Register a directory that holds your ` + "`.sh`" + ` scripts:
~~~
$ vss add-script-dir ./scripts
~~~
- Check the registered directories and how many scripts each holds:
~~~
$ vss list-script-dirs
~~~`,
	}

	scriptDirNotFoundIssue = &Issue{
		id: ScriptDirNotFoundId,
		mdMsg: `
# Script directory not found!

The path does not exist or is not a directory.

## Things you can try:
- Check the spelling of the path
- Create the directory first, or scaffold a script into it:
~~~
$ vss new
~~~`,
	}

	dependencyNotFoundIssue = &Issue{
		id: DependencyNotFoundId,
		mdMsg: `
# Dependency not found!

A script names a dependency in ` + "`@vercel.after`" + ` or ` + "`@vercel.requires`" + ` that vss could not resolve.

## Resolution order:
1. Built-in script filename
2. Absolute path
3. Relative to the directory of the declaring script
4. Every registered script directory, in order

## Things you can try:
- Check the filename in the annotation, including the ` + "`.sh`" + ` extension
- Register the directory that holds the dependency with ` + "`vss add-script-dir`",
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected!

The listed scripts depend on each other in a loop, so no order can satisfy them.

## Things you can try:
- Remove one of the ` + "`@vercel.after`" + ` or ` + "`@vercel.requires`" + ` annotations in the cycle
- Merge the scripts that need each other into one script`,
	}

	invalidDependencyPathIssue = &Issue{
		id: InvalidDependencyPathId,
		mdMsg: `
# Invalid dependency path!

Dependencies may not reach outside their directory with ` + "`../`" + `.

## Things you can try:
- Register the parent directory with ` + "`vss add-script-dir`" + ` and refer to the script by filename`,
	}

	invalidScriptOptionIssue = &Issue{
		id: InvalidScriptOptionId,
		mdMsg: `
# Invalid script option!

An ` + "`@vercel.opt`" + ` annotation does not hold a valid option definition.

## Expected format:
~~~sh
# @vercel.opt {"type":"boolean","name":"DRY_RUN","description":"Skip side effects"}
# @vercel.opt {"type":"string","name":"TEAM","description":"Team slug","pattern":"^[a-z-]+$"}
# @vercel.opt {"type":"worktree","name":"TREE","description":"Checkout","base_dir_arg":"PROJECT_DIR"}
~~~`,
	}

	missingExportIssue = &Issue{
		id: MissingExportId,
		mdMsg: `
# Required variable not exported!

A script declared ` + "`@vercel.requires`" + ` for a variable that its dependency never exported.

## Things you can try:
- Export the variable from the dependency:
~~~sh
export PROJECT_ID="abc123"
~~~
- Or print it between the export markers:
~~~sh
echo "### VSS_EXPORTS_BEGIN ###"
echo "PROJECT_ID=abc123"
echo "### VSS_EXPORTS_END ###"
~~~`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed!

A script exited with a non-zero status, so the remaining scripts were skipped.

## Things you can try:
- Read the prefixed output above the error
- Run again with debug output, which also sets ` + "`VSS_DEBUG=1`" + ` for scripts:
~~~
$ vss --debug --replay
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

` + "`~/.vss.json`" + ` or ` + "`./.vss-app.json`" + ` could not be read.

## Things you can try:
- Check the file for JSON syntax errors
- Delete the file to start over with defaults`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

vss could not read a script or write to its cache directory.

## Things you can try:
- Check the permissions of your script directories
- Point the cache somewhere writable:
~~~
$ VSS_CACHE_DIR=/tmp/vss vss
~~~`,
	}

	issues = map[Id]*Issue{
		noScriptsFoundIssue.Id():        noScriptsFoundIssue,
		scriptDirNotFoundIssue.Id():     scriptDirNotFoundIssue,
		dependencyNotFoundIssue.Id():    dependencyNotFoundIssue,
		dependencyCycleIssue.Id():       dependencyCycleIssue,
		invalidDependencyPathIssue.Id(): invalidDependencyPathIssue,
		invalidScriptOptionIssue.Id():   invalidScriptOptionIssue,
		missingExportIssue.Id():         missingExportIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		permissionDeniedIssue.Id():      permissionDeniedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	values := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		values = append(values, i)
	}
	slices.SortFunc(values, func(a, b *Issue) int { return int(a.id - b.id) })
	return values
}

// Get returns the issue with the given Id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
