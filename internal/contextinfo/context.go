package contextinfo

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Info holds execution context for config discovery, host selection, and audit placement.
type Info struct {
	Cwd      string
	RepoRoot string
	InRepo   bool
	OnCI     bool
	Git      GitSummary
}

// GitSummary captures a minimal git status snapshot.
type GitSummary struct {
	Changed   int
	Untracked int
}

// Detect collects cwd, repo root, CI environment, and git status summary.
func Detect() (Info, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Info{}, err
	}

	repo, inRepo := findRepoRoot(cwd)
	gitSum := GitSummary{}
	if inRepo {
		gitSum = gitStatus(repo)
	}

	return Info{
		Cwd:      cwd,
		RepoRoot: repo,
		InRepo:   inRepo,
		OnCI:     OnActions(),
		Git:      gitSum,
	}, nil
}

// OnActions reports whether the process runs under GitHub Actions.
func OnActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

func findRepoRoot(start string) (string, bool) {
	cur := start
	for {
		if cur == "/" {
			return start, false
		}
		if _, err := os.Stat(filepath.Join(cur, ".git")); err == nil {
			return cur, true
		}
		next := filepath.Dir(cur)
		if next == cur {
			return start, false
		}
		cur = next
	}
}

func gitStatus(repo string) GitSummary {
	cmd := exec.Command("git", "-C", repo, "status", "--porcelain")
	output, err := cmd.Output()
	if err != nil {
		return GitSummary{}
	}
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	changed := 0
	untracked := 0
	for _, l := range lines {
		if l == "" {
			continue
		}
		if strings.HasPrefix(l, "??") {
			untracked++
		} else {
			changed++
		}
	}
	return GitSummary{Changed: changed, Untracked: untracked}
}
