package main

import "github.com/fatih/color"

var (
	okFmt   = color.New(color.FgGreen, color.Bold).SprintFunc()
	errFmt  = color.New(color.FgRed, color.Bold).SprintFunc()
	warnFmt = color.New(color.FgYellow).SprintFunc()
	infoFmt = color.New(color.FgCyan).SprintFunc()
	dimFmt  = color.New(color.Faint).SprintFunc()
)
