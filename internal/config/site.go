package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Site carries the per-athlete defaults used when a content document does not exist yet.
type Site struct {
	AthleteName string            `yaml:"athleteName"`
	Hashtags    SiteHashtags      `yaml:"hashtags"`
	Photos      []SitePhoto       `yaml:"photos"`
	ActivePhoto map[string]string `yaml:"activePhotos"`
}

type SiteHashtags struct {
	Twitter   []string `yaml:"twitter"`
	Instagram []string `yaml:"instagram"`
}

type SitePhoto struct {
	ID           string `yaml:"id"`
	Filename     string `yaml:"filename"`
	OriginalName string `yaml:"originalName"`
	URL          string `yaml:"url"`
	Alt          string `yaml:"alt"`
	Category     string `yaml:"category"`
}

func DefaultSite() Site {
	return Site{
		AthleteName: "Lana Nolan",
		Hashtags: SiteHashtags{
			Twitter:   []string{"#SoftballRecruit", "#Class2027", "#SouthCarolina", "#SoftballLife"},
			Instagram: []string{"#SoftballRecruit", "#Class2027", "#SouthCarolina"},
		},
		Photos: []SitePhoto{
			{ID: "1", Filename: "hero-default.jpg", OriginalName: "hero-background.jpg", URL: "/images/hero-bg.jpg", Alt: "Lana Nolan softball action shot", Category: "hero"},
			{ID: "2", Filename: "profile-default.jpg", OriginalName: "profile-photo.jpg", URL: "/images/profile.jpg", Alt: "Lana Nolan profile photo", Category: "profile"},
		},
		ActivePhoto: map[string]string{
			"heroImage":      "1",
			"profileImage":   "2",
			"featuredAction": "1",
		},
	}
}

// LoadSite reads the YAML site file at path. A missing file yields DefaultSite;
// fields left empty in the file keep their defaults.
func LoadSite(path string) (Site, error) {
	site := DefaultSite()
	if path == "" {
		return site, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return site, nil
		}
		return site, err
	}
	var parsed Site
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return site, fmt.Errorf("site config %s: %w", path, err)
	}
	if parsed.AthleteName != "" {
		site.AthleteName = parsed.AthleteName
	}
	if len(parsed.Hashtags.Twitter) > 0 {
		site.Hashtags.Twitter = parsed.Hashtags.Twitter
	}
	if len(parsed.Hashtags.Instagram) > 0 {
		site.Hashtags.Instagram = parsed.Hashtags.Instagram
	}
	if len(parsed.Photos) > 0 {
		site.Photos = parsed.Photos
	}
	for slot, id := range parsed.ActivePhoto {
		site.ActivePhoto[slot] = id
	}
	return site, nil
}
