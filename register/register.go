// Package register adds this server to an MCP client configuration file.
package register

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/lexandro/fileindex-mcp/atomicfile"
)

type mcpServerEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// ErrUsage is returned when the register arguments are malformed.
var ErrUsage = errors.New("invalid register arguments")

// Run executes the register subcommand. serverName is the MCP server name
// (e.g. "fileindex"); args is everything after "register".
func Run(serverName string, args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return ErrUsage
	}

	scope := args[0]
	if scope != "project" && scope != "user" {
		return fmt.Errorf("%w: unknown scope %q (must be \"project\" or \"user\")", ErrUsage, scope)
	}
	directory, serverArgs := parseArgs(scope, args[1:])

	binaryPath, err := detectBinaryPath()
	if err != nil {
		return err
	}

	configPath, err := resolveConfigPath(scope, directory)
	if err != nil {
		return err
	}

	if err := writeConfig(configPath, serverName, buildEntry(binaryPath, serverArgs)); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Registered %q in %s\n", serverName, configPath)
	return nil
}

// PrintUsage writes the register help text.
func PrintUsage(w io.Writer) {
	binaryName := filepath.Base(os.Args[0])
	fmt.Fprintf(w, "Usage:\n")
	fmt.Fprintf(w, "  %s register project [directory]        # -> <directory>/.mcp.json (default: .)\n", binaryName)
	fmt.Fprintf(w, "  %s register user                       # -> ~/.claude.json\n", binaryName)
	fmt.Fprintf(w, "  %s register user -- -exclude-volume /mnt/backup  # forward flags to the server\n", binaryName)
}

// DeriveServerName extracts a server name from a binary path by stripping .exe and -mcp suffixes.
func DeriveServerName(binaryPath string) string {
	name := filepath.Base(binaryPath)
	name = strings.TrimSuffix(name, ".exe")
	name = strings.TrimSuffix(name, "-mcp")
	return name
}

// parseArgs splits the arguments after the scope. For the project scope the
// first argument before "--" is the directory; everything after "--" is
// forwarded to the server.
func parseArgs(scope string, args []string) (directory string, serverArgs []string) {
	if scope == "project" {
		directory = "."
	}
	for i, arg := range args {
		if arg == "--" {
			return directory, args[i+1:]
		}
		if i == 0 && scope == "project" {
			directory = arg
		}
	}
	return directory, nil
}

func detectBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting executable path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

func resolveConfigPath(scope string, directory string) (string, error) {
	if scope == "project" {
		absDir, err := filepath.Abs(directory)
		if err != nil {
			return "", fmt.Errorf("resolving directory %s: %w", directory, err)
		}
		return filepath.Join(absDir, ".mcp.json"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".claude.json"), nil
}

func buildEntry(binaryPath string, serverArgs []string) mcpServerEntry {
	if runtime.GOOS == "windows" {
		return mcpServerEntry{
			Command: "cmd",
			Args:    append([]string{"/C", binaryPath}, serverArgs...),
		}
	}
	return mcpServerEntry{Command: binaryPath, Args: serverArgs}
}

// writeConfig adds or replaces serverName under mcpServers, keeping every
// other key in the file.
func writeConfig(configPath string, serverName string, entry mcpServerEntry) error {
	config := map[string]any{}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("reading config %s: %w", configPath, err)
	}

	servers, ok := config["mcpServers"]
	if !ok {
		servers = map[string]any{}
		config["mcpServers"] = servers
	}
	serversMap, ok := servers.(map[string]any)
	if !ok {
		return fmt.Errorf("mcpServers in %s is not an object", configPath)
	}
	serversMap[serverName] = entry

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return atomicfile.WriteFile(configPath, append(output, '\n'))
}
