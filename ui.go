// photo-organizer: Sorts photo exports into year/date folders with duplicate filtering.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sqweek/dialog"

	"photoorganizer/config"
)

const (
	sourceZip    = "A zip export (e.g. Google Takeout)"
	sourceFolder = "A folder of photos"
)

// printBanner prints the greeting shown in interactive mode
func printBanner() {
	fmt.Println()
	color.New(color.FgCyan, color.Bold).Println("📷 photo-organizer")
	fmt.Println()
	color.New(color.FgWhite).Println("   I sort a photo export into year/date folders:")
	color.New(color.FgGreen).Println("   • 📁 2024/2024-03-07/IMG_0001.jpg, using the capture date or the file name")
	color.New(color.FgBlue).Println("   • ✏️  Renamed folders like 2024-03-07_birthday are reused")
	color.New(color.FgYellow).Println("   • 🔍 Edited copies, GIFs, Lightroom exports and Nikon shots can be skipped")
}

// isGUIAvailable checks if a display is available for native dialogs
func isGUIAvailable() bool {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		return true
	}
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}

// guiPicker opens a native picker: a zip file chooser or a directory chooser
func guiPicker(title string, zipFile bool) (picked string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dialog failed: %v", r)
		}
	}()

	if zipFile {
		return dialog.File().Title(title).Filter("Zip archives", "zip").Load()
	}
	return dialog.Directory().Title(title).Browse()
}

// exitOnInterrupt ends the process when the user hits Ctrl+C in a prompt
func exitOnInterrupt(err error, what string) {
	if errors.Is(err, promptui.ErrInterrupt) {
		color.New(color.FgRed, color.Bold).Println("\nInterrupted during prompt. Exiting cleanly.")
		os.Exit(130)
	}
	if err != nil {
		log.Fatalf("[FATAL] %s prompt failed: %v", what, err)
	}
}

// validateSource checks the typed input path against the chosen source kind
func validateSource(zipFile bool) func(string) error {
	return func(input string) error {
		p, err := config.ExpandPath(strings.TrimSpace(input))
		if err != nil {
			return err
		}
		info, err := os.Stat(p)
		if err != nil {
			return fmt.Errorf("path does not exist")
		}
		if zipFile && info.IsDir() {
			return fmt.Errorf("expected a .zip file, got a directory")
		}
		if !zipFile && !info.IsDir() {
			return fmt.Errorf("not a valid directory")
		}
		return nil
	}
}

// interactivePrompt asks for the input, output and filter settings and
// stores them in cfg.
func interactivePrompt(cfg *config.Config) {
	printBanner()

	fmt.Println()
	kindPrompt := promptui.Select{
		Label: "What would you like to organize?",
		Items: []string{sourceZip, sourceFolder},
	}
	_, kind, err := kindPrompt.Run()
	exitOnInterrupt(err, "Source type")
	zipFile := kind == sourceZip

	var input, output string
	if cfg.GUI && isGUIAvailable() {
		fmt.Println()
		color.New(color.FgBlue).Println("   Opening file picker for the SOURCE...")
		input, err = guiPicker("Select photos to organize", zipFile)
		if err == nil {
			color.New(color.FgBlue).Println("   Opening file picker for the OUTPUT directory...")
			output, err = guiPicker("Select output directory", false)
		}
		if err != nil {
			color.New(color.FgYellow).Println("   GUI picker unavailable, using text prompts instead...")
		}
	}

	if input == "" {
		fmt.Println()
		color.New(color.FgWhite).Println("   💡 Tip: Copy and paste paths from your file manager")
		prompt := promptui.Prompt{
			Label:    "Source (zip file or folder)",
			Default:  cfg.Input,
			Validate: validateSource(zipFile),
		}
		input, err = prompt.Run()
		exitOnInterrupt(err, "Source")
	}

	if output == "" {
		prompt := promptui.Prompt{
			Label:   "Output directory",
			Default: cfg.Output,
			Validate: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("output directory is required")
				}
				return nil
			},
		}
		output, err = prompt.Run()
		exitOnInterrupt(err, "Output")
	}

	fmt.Println()
	filterPrompt := promptui.Select{
		Label: "Skip edited copies, GIFs, Lightroom exports and Nikon shots?",
		Items: []string{"Yes", "No"},
	}
	_, filterChoice, err := filterPrompt.Run()
	exitOnInterrupt(err, "Filter")

	cfg.Input = strings.TrimSpace(input)
	cfg.Output = strings.TrimSpace(output)
	cfg.NoFilter = filterChoice == "No"

	fmt.Println()
	color.New(color.FgMagenta, color.Bold).Println("⚙️  Configuration")
	color.New(color.FgWhite).Printf("   Source: %s\n", cfg.Input)
	color.New(color.FgWhite).Printf("   Output: %s\n", cfg.Output)
	if cfg.NoFilter {
		color.New(color.FgYellow).Println("   Filter: off (every photo is organized)")
	} else {
		color.New(color.FgGreen).Println("   Filter: on")
	}
}
