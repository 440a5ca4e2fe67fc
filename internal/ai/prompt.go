package ai

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
)

const instructions = `IMPORTANT INSTRUCTIONS:
1. ALWAYS use user names (from userDirectory) instead of user IDs when referring to people
2. When you see a userId like "5ba1f087c0b54c2f85969f34", look it up in the userDirectory and use the corresponding name.
If no name is found, use "Unknown User".
3. Make your insights human-readable by using actual names like "John Doe" instead of user IDs
4. When projectInsights data is available, include project-level insights about resource allocation
5. Highlight which projects are consuming the most team time and resources
6. Focus on actionable insights for team management`

var responseSchema = sync.OnceValue(func() string {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
		Anonymous:      true,
	}
	schema := reflector.Reflect(&Response{})
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("reflecting response schema: %v", err))
	}
	return string(data)
})

// BuildPrompt assembles the single prompt both providers send: the raw
// query, the JSON-serialized context, the id-to-name directory, the
// naming instructions, and the required response schema.
func BuildPrompt(query string, queryContext QueryContext) (string, error) {
	contextJSON, err := json.MarshalIndent(queryContext, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling query context: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a team resource management assistant. Based on the following query and context, provide insights about team availability and billability.\n\n")
	fmt.Fprintf(&b, "Query: %s\n\n", query)
	fmt.Fprintf(&b, "Context: %s\n", contextJSON)
	b.WriteString(userDirectorySection(queryContext.UserDirectory))
	b.WriteString("\n")
	b.WriteString(instructions)
	b.WriteString("\n\nYou must respond with valid JSON matching this schema:\n")
	b.WriteString(responseSchema())
	b.WriteString("\n\nDo not include any text outside the JSON response. Only return valid JSON.")
	return b.String(), nil
}

func userDirectorySection(directory map[string]string) string {
	if len(directory) == 0 {
		return ""
	}

	ids := make([]string, 0, len(directory))
	for id := range directory {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString("\nUSER DIRECTORY (Use names, not IDs):\n")
	for _, id := range ids {
		fmt.Fprintf(&b, "  %s -> %s\n", id, directory[id])
	}
	return b.String()
}
