package hwr

import (
	"context"
	"encoding/json"
	"os"
	"path"

	"github.com/juruen/inkpaper/log"
	"github.com/pkg/errors"
)

const cacheVersion = 1

// LanguageCache keeps language lists per input mode on disk
type LanguageCache struct {
	Path string
}

type languageFile struct {
	CacheVersion int                             `json:"cache_version"`
	Host         string                          `json:"host"`
	Languages    map[InputMode]map[string]string `json:"languages"`
}

// DefaultLanguageCachePath is languages.cache in the user cache directory,
// falling back to the home directory.
func DefaultLanguageCachePath() (string, error) {
	dir, err := os.UserCacheDir()
	if err == nil {
		dir = path.Join(dir, "inkpaper")
		err = os.MkdirAll(dir, 0700)
	}
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", herr
		}
		dir = path.Join(home, ".inkpaper-cache")
		if err := os.MkdirAll(dir, 0700); err != nil {
			return "", err
		}
	}
	return path.Join(dir, "languages.cache"), nil
}

func (lc *LanguageCache) load(host string) *languageFile {
	f := &languageFile{Host: host, Languages: map[InputMode]map[string]string{}}
	b, err := os.ReadFile(lc.Path)
	if err != nil {
		return f
	}
	cached := &languageFile{}
	if err := json.Unmarshal(b, cached); err != nil {
		log.Error.Println("cache corrupt, refetching")
		return f
	}
	if cached.CacheVersion != cacheVersion || cached.Host != host || cached.Languages == nil {
		log.Info.Println("stale language cache, refetching")
		return f
	}
	return cached
}

func (lc *LanguageCache) save(f *languageFile) error {
	log.Info.Println("Writing cache: ", lc.Path)
	f.CacheVersion = cacheVersion
	b, err := json.MarshalIndent(f, "", "")
	if err != nil {
		return err
	}
	return os.WriteFile(lc.Path, b, 0644)
}

// Languages returns the cached list for mode, asking the service on a
// miss.
func (lc *LanguageCache) Languages(ctx context.Context, client *RESTClient, applicationKey string, mode InputMode) (map[string]string, error) {
	f := lc.load(client.BaseURL)
	if langs, ok := f.Languages[mode]; ok {
		log.Trace.Printf("languages for %s loaded from cache", mode)
		return langs, nil
	}

	langs, err := client.Languages(ctx, applicationKey, mode)
	if err != nil {
		return nil, errors.Wrap(err, "can't fetch languages")
	}

	f.Languages[mode] = langs
	if err := lc.save(f); err != nil {
		log.Warning.Printf("can't write language cache: %v", err)
	}
	return langs, nil
}
