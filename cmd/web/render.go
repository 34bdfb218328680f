package main

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/gildedlane/storefront-web/internal/format"
	"github.com/gildedlane/storefront-web/internal/seo"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"now":   time.Now,
		"money": format.Money,
		"t": func(lang, key string) string {
			if i18nBundle == nil {
				return key
			}
			return i18nBundle.T(lang, key)
		},
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	}
}

func parseTemplates() (*template.Template, error) {
	// Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(templatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", templatesDir)
	}
	return template.New("_root").Funcs(templateFuncs()).ParseFiles(files...)
}

func currentTemplates(w http.ResponseWriter) *template.Template {
	if devMode {
		tc, err := parseTemplates()
		if err != nil {
			http.Error(w, fmt.Sprintf("template parse error: %v", err), http.StatusInternalServerError)
			return nil
		}
		return tc
	}
	if tmplCache == nil {
		http.Error(w, "template not initialized", http.StatusInternalServerError)
		return nil
	}
	return tmplCache
}

// renderPage executes a full page template wrapped in the shared layout.
// In dev mode, templates are reparsed on each request.
func renderPage(w http.ResponseWriter, r *http.Request, name string, data any) {
	renderPageStatus(w, r, name, data, http.StatusOK)
}

func renderPageStatus(w http.ResponseWriter, r *http.Request, name string, data any, status int) {
	t := currentTemplates(w)
	if t == nil {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, fmt.Sprintf("template exec error: %v", err), http.StatusInternalServerError)
		return
	}
}

// renderTemplate executes a fragment template without the page layout.
func renderTemplate(w http.ResponseWriter, r *http.Request, name string, data any) {
	t := currentTemplates(w)
	if t == nil {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, name, data); err != nil {
		http.Error(w, fmt.Sprintf("template exec error: %v", err), http.StatusInternalServerError)
		return
	}
}

// i18nOrDefault translates key for lang, falling back to def when the bundle
// has no entry.
func i18nOrDefault(lang, key, def string) string {
	if i18nBundle == nil {
		return def
	}
	if v := i18nBundle.T(lang, key); v != key {
		return v
	}
	return def
}

// absoluteURL reconstructs the canonical URL for the current request.
func absoluteURL(r *http.Request) string {
	scheme := "https"
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	} else if r.TLS == nil {
		scheme = "http"
	}
	host := r.Host
	if host == "" {
		host = "localhost"
	}
	return scheme + "://" + host + r.URL.Path
}

// buildAlternates emits hreflang entries for every supported locale plus
// x-default.
func buildAlternates(r *http.Request) []seo.Alternate {
	if i18nBundle == nil {
		return nil
	}
	base := absoluteURL(r)
	alts := make([]seo.Alternate, 0, 3)
	for _, lang := range i18nBundle.Supported() {
		u, err := url.Parse(base)
		if err != nil {
			continue
		}
		q := u.Query()
		q.Set("hl", lang)
		u.RawQuery = q.Encode()
		alts = append(alts, seo.Alternate{Href: u.String(), Hreflang: lang})
	}
	alts = append(alts, seo.Alternate{Href: base, Hreflang: "x-default"})
	return alts
}

func cloneQuery(q url.Values) url.Values {
	if q == nil {
		return nil
	}
	out := make(url.Values, len(q))
	for k, vs := range q {
		cp := make([]string, len(vs))
		copy(cp, vs)
		out[k] = cp
	}
	return out
}
