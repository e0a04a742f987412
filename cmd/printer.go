package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// printWarn prints a warning to the screen.
func printWarn(message string) {
	message = "[-] " + message

	color.New(color.FgYellow, color.Bold).Println(message)
}

// printError prints an error to the screen.
func printError(err error) {
	message := "[!] " + err.Error()

	color.New(color.FgRed, color.Bold).Println(message)
}

// printFields prints a list of name and value pairs, with the values aligned.
func printFields(w io.Writer, fields [][2]string) {
	var width int
	for _, field := range fields {
		width = max(width, runewidth.StringWidth(field[0]))
	}

	label := color.New(color.Bold)
	for _, field := range fields {
		label.Fprint(w, runewidth.FillRight(field[0]+":", width+1))
		fmt.Fprintln(w, " "+field[1])
	}
}

// printTable prints rows of values in columns, under a title-cased header.
func printTable(w io.Writer, header []string, rows [][]string) {
	title := cases.Title(language.Und, cases.NoLower)

	widths := make([]int, len(header))
	for i, h := range header {
		header[i] = title.String(h)
		widths[i] = runewidth.StringWidth(header[i])
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	line := func(cells []string) string {
		var sb strings.Builder

		for i, cell := range cells {
			if i > 0 {
				sb.WriteString("  ")
			}

			if i == len(cells)-1 {
				sb.WriteString(cell)
				continue
			}

			sb.WriteString(runewidth.FillRight(cell, widths[i]))
		}

		return sb.String()
	}

	color.New(color.Bold).Fprintln(w, line(header))
	for _, row := range rows {
		fmt.Fprintln(w, line(row))
	}
}
