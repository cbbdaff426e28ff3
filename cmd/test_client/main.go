package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	endpoint := flag.String("endpoint", "http://localhost:8080/mcp/stream", "MCP streamable HTTP endpoint")
	term := flag.String("term", "golang", "search term")
	spreadsheet := flag.String("spreadsheet", "", "spreadsheet ID for the sheets_export check (skipped when empty)")
	flag.Parse()

	ctx := context.Background()

	client := mcp.NewClient(&mcp.Implementation{
		Name:    "torre-matheus-test-client",
		Version: "0.1.0",
	}, nil)

	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint: *endpoint,
	}, nil)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer func() { _ = session.Close() }()

	log.Printf("Connected to server (session ID: %s)\n", session.ID())

	testListTools(ctx, session)
	sessionID := testSearch(ctx, session, *term)
	if sessionID != "" {
		testPage(ctx, session, sessionID)
		if *spreadsheet != "" {
			testSheetsExport(ctx, session, sessionID, *spreadsheet)
		}
	}

	fmt.Println("\nAll tests completed")
}

func testListTools(ctx context.Context, session *mcp.ClientSession) {
	fmt.Println("\nTEST: list tools")

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		log.Printf("list tools failed: %v", err)
		return
	}
	for _, tool := range res.Tools {
		fmt.Printf("  %s: %s\n", tool.Name, tool.Description)
	}
}

func testSearch(ctx context.Context, session *mcp.ClientSession, term string) string {
	fmt.Println("\nTEST: opportunity_search")

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "opportunity_search",
		Arguments: map[string]any{
			"term":   term,
			"params": map[string]any{"size": 5, "currency": "USD", "periodicity": "monthly"},
		},
	})
	if err != nil {
		log.Printf("opportunity_search failed: %v", err)
		return ""
	}

	text := printResult(result)
	if result.IsError {
		return ""
	}
	fmt.Println("opportunity_search passed")

	for _, line := range strings.Split(text, "\n") {
		if id, ok := strings.CutPrefix(line, "Session: "); ok {
			return id
		}
	}
	return ""
}

func testPage(ctx context.Context, session *mcp.ClientSession, sessionID string) {
	fmt.Println("\nTEST: opportunity_page")

	for _, dir := range []string{"next", "previous"} {
		result, err := session.CallTool(ctx, &mcp.CallToolParams{
			Name: "opportunity_page",
			Arguments: map[string]any{
				"session_id": sessionID,
				"direction":  dir,
			},
		})
		if err != nil {
			log.Printf("opportunity_page (%s) failed: %v", dir, err)
			return
		}
		printResult(result)
	}
	fmt.Println("opportunity_page passed")
}

func testSheetsExport(ctx context.Context, session *mcp.ClientSession, sessionID, spreadsheetID string) {
	fmt.Println("\nTEST: sheets_export")

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: "sheets_export",
		Arguments: map[string]any{
			"session_id": sessionID,
			"clear_tab":  true,
			"upsert":     true,
			"sheet": map[string]any{
				"spreadsheet_id": spreadsheetID,
				"tab":            "Opportunities",
			},
		},
	})
	if err != nil {
		log.Printf("sheets_export failed: %v", err)
		return
	}
	printResult(result)
	fmt.Println("sheets_export passed")
}

func printResult(res *mcp.CallToolResult) string {
	var b strings.Builder
	for _, c := range res.Content {
		if txt, ok := c.(*mcp.TextContent); ok {
			fmt.Println(txt.Text)
			b.WriteString(txt.Text)
		}
	}
	return b.String()
}
