package version

import "fmt"

const (
	Version = "v0.1.0"

	colorReset    = "\033[0m"
	colorCyanBold = "\033[36;1m"
)

// asciiArtTpl returns the ASCII art banner shared by the ifxcli binaries.
func asciiArtTpl() string {
	asciiArt := `
    ____________  __ ________    ____
   /  _/ ____/ |/ // ____/ /   /  _/
   / // /_   |   // /   / /    / /
 _/ // __/  /   |/ /___/ /____/ /
/___/_/    /_/|_|\____/_____/___/
%s ` + Version + `
Informix-style client database access layer`

	asciiArt = asciiArt[1:]                          // This just removes the first newline character
	asciiArt = colorCyanBold + asciiArt + colorReset // Add color to the ASCII art

	return asciiArt
}

// CLIVersion returns the version banner of the ifxcli REPL.
func CLIVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "CLI")
}

// BenchVersion returns the version banner of ifxbench.
func BenchVersion() string {
	return fmt.Sprintf(asciiArtTpl(), "Bench")
}
