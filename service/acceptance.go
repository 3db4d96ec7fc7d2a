package service

import (
	"net/http"
	"path/filepath"

	"github.com/fulldump/apitest"
	"github.com/fulldump/biff"
)

type JSON = map[string]interface{}

// Acceptance walks the HTTP API. dir is a scratch directory for exports.
func Acceptance(a *biff.A, dir string, apiRequest func(method, path string) *apitest.Request) {

	a.Alternative("Upsert records", func(a *biff.A) {

		records := []JSON{
			{"key": 0, "string": "String Z", "number": 4},
			{"key": 2, "string": "String B", "number": 9},
			{"key": 10, "string": "String C", "number": 75},
			{"key": 5, "string": "q", "number": 3},
		}
		for _, record := range records {
			resp := apiRequest("POST", "/records").
				WithBodyJson(record).Do()
			Save(resp, "Upsert record", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusCreated)
			biff.AssertEqualJson(resp.BodyJson(), record)
		}

		a.Alternative("Retrieve record", func(a *biff.A) {
			resp := apiRequest("GET", "/records/10").Do()
			Save(resp, "Retrieve record", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{"key": 10, "string": "String C", "number": 75})
		})

		a.Alternative("Retrieve missing record", func(a *biff.A) {
			resp := apiRequest("GET", "/records/11").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})

		a.Alternative("Retrieve record with invalid key", func(a *biff.A) {
			resp := apiRequest("GET", "/records/ten").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})

		a.Alternative("Index by string", func(a *biff.A) {
			resp := apiRequest("GET", "/indexes/string").Do()
			Save(resp, "Index by string", `
				Entries come in ascending value order. Text compares byte
				by byte, so uppercase letters sort before lowercase ones.
			`)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{
				{"value": "String B", "key": 2},
				{"value": "String C", "key": 10},
				{"value": "String Z", "key": 0},
				{"value": "q", "key": 5},
			})
		})

		a.Alternative("Index by number", func(a *biff.A) {
			resp := apiRequest("GET", "/indexes/number").Do()
			Save(resp, "Index by number", ``)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), []JSON{
				{"value": 3, "key": 5},
				{"value": 4, "key": 0},
				{"value": 9, "key": 2},
				{"value": 75, "key": 10},
			})
		})

		a.Alternative("Index by unknown column", func(a *biff.A) {
			resp := apiRequest("GET", "/indexes/both").Do()

			biff.AssertEqual(resp.StatusCode, http.StatusNotFound)
		})

		a.Alternative("Collision on string value", func(a *biff.A) {
			resp := apiRequest("POST", "/records").
				WithBodyJson(JSON{"key": 7, "string": "q", "number": 100}).Do()
			biff.AssertEqual(resp.StatusCode, http.StatusCreated)

			resp = apiRequest("GET", "/indexes/string").Do()
			entries := resp.BodyJson().([]interface{})
			biff.AssertEqual(len(entries), 4)
			biff.AssertEqualJson(entries[3], JSON{"value": "q", "key": 7})
		})

		a.Alternative("Export by number", func(a *biff.A) {
			path := filepath.Join(dir, "by-number")
			resp := apiRequest("POST", "/indexes/number:export").
				WithBodyJson(JSON{"path": path}).Do()
			Save(resp, "Export by number", `
				Writes the number column, in ascending order, to a new store
				keyed by the original record keys.
			`)

			biff.AssertEqual(resp.StatusCode, http.StatusOK)
			biff.AssertEqualJson(resp.BodyJson(), JSON{"path": path, "entries": 4})

			a.Alternative("Export to the same path again", func(a *biff.A) {
				resp := apiRequest("POST", "/indexes/string:export").
					WithBodyJson(JSON{"path": path}).Do()
				Save(resp, "Export to an existing store", ``)

				biff.AssertEqual(resp.StatusCode, http.StatusConflict)
			})
		})

		a.Alternative("Export without path", func(a *biff.A) {
			resp := apiRequest("POST", "/indexes/string:export").
				WithBodyJson(JSON{}).Do()

			biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
		})
	})

	a.Alternative("Upsert invalid record", func(a *biff.A) {
		resp := apiRequest("POST", "/records").
			WithBodyJson(JSON{"key": 1, "string": "a", "number": 1.5}).Do()
		Save(resp, "Upsert invalid record", ``)

		biff.AssertEqual(resp.StatusCode, http.StatusBadRequest)
	})
}
