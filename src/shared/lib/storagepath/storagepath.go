package storagepath

import "fmt"

// Generator lays out the objects of a remix job in the bucket
type Generator struct {
	Host   string
	Bucket string
}

func (g Generator) UploadPath(jobID string, fileName string) string {
	return fmt.Sprintf("uploads/%s/%s", jobID, fileName)
}

func (g Generator) MixPath(jobID string, mixName string) string {
	return fmt.Sprintf("mixes/%s/%s", jobID, mixName)
}

func (g Generator) URL(objectPath string) string {
	return fmt.Sprintf("%s/%s/%s", g.Host, g.Bucket, objectPath)
}
