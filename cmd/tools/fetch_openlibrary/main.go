// Fetches book metadata from the Open Library search API and writes a
// books.json seed file consumed by the server at startup.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"bookshelf/pkg/models"
)

const endpoint = "https://openlibrary.org/search.json"

type searchResp struct {
	Docs []struct {
		Title         string   `json:"title"`
		AuthorName    []string `json:"author_name"`
		NumberOfPages int64    `json:"number_of_pages_median"`
	} `json:"docs"`
}

func main() {
	outPath := flag.String("out", "data/books.json", "output json path")
	subject := flag.String("subject", "classic literature", "search query")
	n := flag.Int("n", 40, "number of books to fetch")
	flag.Parse()

	q := url.Values{}
	q.Set("q", *subject)
	q.Set("limit", fmt.Sprint(*n))
	q.Set("fields", "title,author_name,number_of_pages_median")

	resp, err := http.Get(endpoint + "?" + q.Encode())
	if err != nil {
		panic(err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		fmt.Println(string(raw))
		panic(fmt.Errorf("openlibrary http status: %s", resp.Status))
	}

	var parsed searchResp
	if err := json.Unmarshal(raw, &parsed); err != nil {
		panic(err)
	}

	out := make([]models.Book, 0, len(parsed.Docs))
	for _, d := range parsed.Docs {
		title := strings.TrimSpace(d.Title)
		if title == "" || d.NumberOfPages <= 0 {
			continue
		}

		author := "Unknown"
		if len(d.AuthorName) > 0 && strings.TrimSpace(d.AuthorName[0]) != "" {
			author = d.AuthorName[0]
		}

		out = append(out, models.Book{
			Title:      title,
			Author:     author,
			TotalPages: d.NumberOfPages,
		})
	}

	_ = os.MkdirAll(filepath.Dir(*outPath), 0755)

	j, _ := json.MarshalIndent(out, "", "  ")
	if err := os.WriteFile(*outPath, j, 0644); err != nil {
		panic(err)
	}

	fmt.Printf("Wrote %d books -> %s\n", len(out), *outPath)
}
