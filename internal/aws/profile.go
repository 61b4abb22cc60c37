package aws

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Profile is a named profile from the shared AWS config files
type Profile struct {
	Name   string
	Region string // from the config file, if set
	Source string // "credentials", "config" or "credentials+config"
}

var (
	sectionRe = regexp.MustCompile(`^\[\s*(?:profile\s+)?([^\]]+?)\s*\]$`)
	regionRe  = regexp.MustCompile(`^region\s*=\s*(.+)$`)
)

// sharedFile returns the path of a shared AWS file, honoring the same
// environment overrides as the SDK
func sharedFile(envVar, name string) string {
	if p := os.Getenv(envVar); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".aws", name)
	}
	return filepath.Join(home, ".aws", name)
}

// ListProfiles reads profiles from the shared config and credentials files.
// "default" sorts first, the rest alphabetically. Missing files are skipped.
func ListProfiles() ([]Profile, error) {
	merged := make(map[string]*Profile)

	sources := []struct {
		path   string
		source string
	}{
		{sharedFile("AWS_SHARED_CREDENTIALS_FILE", "credentials"), "credentials"},
		{sharedFile("AWS_CONFIG_FILE", "config"), "config"},
	}

	for _, src := range sources {
		profiles, err := parseProfiles(src.path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		for _, p := range profiles {
			existing, ok := merged[p.Name]
			if !ok {
				p.Source = src.source
				merged[p.Name] = &p
				continue
			}
			existing.Source += "+" + src.source
			if existing.Region == "" {
				existing.Region = p.Region
			}
		}
	}

	profiles := make([]Profile, 0, len(merged))
	for _, p := range merged {
		profiles = append(profiles, *p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].Name == "default" || profiles[j].Name == "default" {
			return profiles[i].Name == "default"
		}
		return profiles[i].Name < profiles[j].Name
	})

	return profiles, nil
}

// ValidateProfile checks if a profile exists
func ValidateProfile(name string) bool {
	profiles, err := ListProfiles()
	if err != nil {
		return false
	}
	for _, p := range profiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

// parseProfiles scans an INI-style AWS file for profile sections and their
// region key. Non-profile sections such as [sso-session x] are ignored.
func parseProfiles(path string) ([]Profile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var profiles []Profile
	current := -1

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if m := sectionRe.FindStringSubmatch(line); m != nil {
			current = -1
			name := m[1]
			if strings.ContainsAny(name, " \t") {
				continue
			}
			profiles = append(profiles, Profile{Name: name})
			current = len(profiles) - 1
			continue
		}

		if current >= 0 {
			if m := regionRe.FindStringSubmatch(line); m != nil {
				profiles[current].Region = strings.TrimSpace(m[1])
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}
