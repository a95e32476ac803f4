package jobmessage_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-remix/src/shared/job/message"
	. "github.com/veedubyou/stem-remix/src/shared/testing"
)

var _ = Describe("Remix job message", func() {
	It("carries the job ID", func() {
		publishing := ExpectSuccess(jobmessage.NewRemixJobPublishing("job-1"))
		Expect(publishing.Type).To(Equal(jobmessage.RemixJobType))
		Expect(publishing.Body).To(MatchJSON(`{"job_id":"job-1"}`))

		remixJob := ExpectSuccess(jobmessage.ParseRemixJob(publishing.Body))
		Expect(remixJob.JobID).To(Equal("job-1"))
	})

	It("rejects a message without a job ID", func() {
		_, err := jobmessage.ParseRemixJob([]byte(`{"track_id":"abc"}`))
		Expect(err).To(HaveOccurred())
	})

	It("rejects malformed JSON", func() {
		_, err := jobmessage.ParseRemixJob([]byte(`{job_id`))
		Expect(err).To(HaveOccurred())
	})
})
