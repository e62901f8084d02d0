package shell

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// Parse maps a shell name or binary path ("zsh", "/bin/bash", "-fish",
// "mksh") to a ShellType. It returns "" for anything unrecognised.
func Parse(name string) ShellType {
	name = strings.ToLower(strings.TrimPrefix(filepath.Base(strings.TrimSpace(name)), "-"))
	switch name {
	case "bash":
		return Bash
	case "zsh":
		return Zsh
	case "fish":
		return Fish
	case "ksh", "ksh93", "mksh", "pdksh":
		return Ksh
	}
	return ""
}

// Detect guesses the user's shell from $SHELL, then from the parent
// process name, and falls back to Bash.
func Detect() ShellType {
	if sh := Parse(os.Getenv("SHELL")); sh != "" {
		return sh
	}
	if sh := Parse(parentComm()); sh != "" {
		return sh
	}
	return Bash
}

func parentComm() string {
	ppid := os.Getppid()
	if ppid <= 0 {
		return ""
	}
	pid := strconv.Itoa(ppid)
	switch runtime.GOOS {
	case "linux":
		data, err := os.ReadFile("/proc/" + pid + "/comm")
		if err != nil {
			return ""
		}
		return string(data)
	case "darwin":
		out, err := exec.Command("ps", "-p", pid, "-o", "comm=").Output()
		if err != nil {
			return ""
		}
		return string(out)
	}
	return ""
}
