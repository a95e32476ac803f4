package testlib

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"

	"github.com/labstack/echo/v4"
	"github.com/onsi/gomega"
)

// FormRequestFactory builds multipart form requests the way the upload form sends them
type FormRequestFactory struct {
	Method      string
	Target      string
	FileName    string
	FileContent []byte
	Fields      map[string][]string
}

func (f FormRequestFactory) MakeFake() *http.Request {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, values := range f.Fields {
		for _, value := range values {
			err := writer.WriteField(key, value)
			gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred())
		}
	}

	if f.FileName != "" {
		part, err := writer.CreateFormFile("audio_file", f.FileName)
		gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred())
		_, err = part.Write(f.FileContent)
		gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred())
	}

	err := writer.Close()
	gomega.ExpectWithOffset(1, err).NotTo(gomega.HaveOccurred())

	request := httptest.NewRequest(f.Method, f.Target, body)
	request.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	return request
}
