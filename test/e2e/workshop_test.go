package e2e_test

import (
	"context"
	"fmt"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/orchestra-io/orchestra/internal/workshop"
	"github.com/orchestra-io/orchestra/pkg/client"
	"github.com/orchestra-io/orchestra/test/e2e/framework"
)

var _ = Describe("Workshop lifecycle", Ordered, Label("workshop"), func() {
	var (
		ctx  = context.Background()
		name = fmt.Sprintf("e2e-%d", time.Now().Unix())
	)

	AfterAll(func() {
		GinkgoWriter.Println("Cleaning up workshop test resources...")
		framework.CleanupWorkshopsIgnoreErrors(ctx, c, []string{name})
	})

	It("should create a workshop and reject a duplicate", func() {
		By("Creating workshop " + name)

		req := &workshop.Request{Name: name, Duration: "30m", Image: cfg.Image}
		if cfg.IngressHost != "" {
			req.Ingress = &workshop.IngressRequest{Host: name + "." + cfg.IngressHost}
		}

		ws, err := c.Workshops.Create(ctx, req)
		Expect(err).NotTo(HaveOccurred(), "Failed to create workshop")
		Expect(ws.Name).To(Equal(name))
		Expect(ws.Status.ExpiresAt).To(BeTemporally("~", time.Now().Add(30*time.Minute), time.Minute))

		By("Creating the same workshop again")

		_, err = c.Workshops.Create(ctx, req)
		Expect(client.IsConflict(err)).To(BeTrue(), "expected conflict, got %v", err)
	})

	It("should list the workshop", func() {
		items, err := c.Workshops.ListAll(ctx)
		Expect(err).NotTo(HaveOccurred())

		names := make([]string, 0, len(items))
		for _, ws := range items {
			names = append(names, ws.Name)
		}

		Expect(names).To(ContainElement(name))
	})

	It("should become Running", Label("operator"), func() {
		st, err := framework.WaitForPhase(ctx, c, name, workshop.PhaseRunning, framework.WaitOptions{Timeout: cfg.Timeout})
		Expect(err).NotTo(HaveOccurred(), "Workshop did not reach Running phase")
		Expect(st.PodReady).To(BeTrue())
		Expect(st.IngressReady).To(BeTrue())
	})

	It("should delete the workshop idempotently", func() {
		Expect(c.Workshops.Delete(ctx, name)).To(Succeed())
		Expect(framework.WaitForDeleted(ctx, c, name, framework.WaitOptions{Timeout: 2 * time.Minute})).To(Succeed())
		Expect(c.Workshops.Delete(ctx, name)).To(Succeed())

		_, err := c.Workshops.Status(ctx, name)
		Expect(client.IsNotFound(err)).To(BeTrue(), "expected not found, got %v", err)
	})
})
