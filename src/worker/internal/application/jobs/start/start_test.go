package start_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/veedubyou/stem-remix/src/shared/job/entity"
	"github.com/veedubyou/stem-remix/src/shared/testing/dummy"
	"github.com/veedubyou/stem-remix/src/worker/internal/application/jobs/start"
)

var _ = Describe("Start", func() {
	var (
		dummyJobStore *dummy.JobStore
		handler       start.JobHandler
		jobID         string
	)

	BeforeEach(func() {
		By("Setting up the dummy job store data", func() {
			dummyJobStore = dummy.NewJobStore()

			job := jobentity.NewJob("song.mp3", jobentity.Fields{Removals: []string{}})
			jobID = job.ID

			err := dummyJobStore.SetJob(context.Background(), job)
			Expect(err).NotTo(HaveOccurred())
		})

		By("Instantiating the handler", func() {
			handler = start.NewJobHandler(dummyJobStore)
		})
	})

	getStatus := func() jobentity.Status {
		job, err := dummyJobStore.GetJob(context.Background(), jobID)
		Expect(err).NotTo(HaveOccurred())
		return job.Status
	}

	Describe("Happy path", func() {
		It("moves the job to processing", func() {
			err := handler.HandleStartJob(context.Background(), jobID)
			Expect(err).NotTo(HaveOccurred())
			Expect(getStatus()).To(Equal(jobentity.ProcessingStatus))
		})
	})

	Describe("Job was already started", func() {
		BeforeEach(func() {
			Expect(handler.HandleStartJob(context.Background(), jobID)).To(Succeed())
		})

		It("refuses to start it again", func() {
			err := handler.HandleStartJob(context.Background(), jobID)
			Expect(err).To(HaveOccurred())
			Expect(getStatus()).To(Equal(jobentity.ProcessingStatus))
		})
	})

	Describe("Unknown job", func() {
		It("returns an error", func() {
			err := handler.HandleStartJob(context.Background(), "no-such-job")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Can't reach job store", func() {
		BeforeEach(func() {
			dummyJobStore.Unavailable = true
		})

		It("returns an error", func() {
			err := handler.HandleStartJob(context.Background(), jobID)
			Expect(err).To(HaveOccurred())
		})
	})
})
