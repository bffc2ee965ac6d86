package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/template"

	"github.com/urfave/cli/v2"

	"github.com/keshon/fvc/internal/command"
)

func main() {
	tplBytes, err := os.ReadFile("README.md.tmpl")
	if err != nil {
		fmt.Printf("Failed to read template: %v\n", err)
		os.Exit(1)
	}

	tpl, err := template.New("readme").Parse(string(tplBytes))
	if err != nil {
		fmt.Printf("Failed to parse template: %v\n", err)
		os.Exit(1)
	}

	commands := append([]*cli.Command(nil), command.App().Commands...)
	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Name < commands[j].Name
	})

	var sections strings.Builder
	for _, cmd := range commands {
		fmt.Fprintf(&sections, "### %s\n```\nfvc %s %s\n\n%s\n", cmd.Name, cmd.Name, cmd.ArgsUsage, cmd.Usage)
		if cmd.Description != "" {
			fmt.Fprintf(&sections, "\n%s\n", cmd.Description)
		}
		for _, f := range cmd.Flags {
			fmt.Fprintf(&sections, "\n  %s", f.String())
		}
		if len(cmd.Flags) > 0 {
			sections.WriteString("\n")
		}
		sections.WriteString("```\n\n")
	}

	data := map[string]string{
		"CommandSections": sections.String(),
	}

	outFile, err := os.Create("README.md")
	if err != nil {
		fmt.Printf("Failed to create README.md: %v\n", err)
		os.Exit(1)
	}
	defer outFile.Close()

	if err := tpl.Execute(outFile, data); err != nil {
		fmt.Printf("Failed to render template: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("README.md generated successfully")
}
