package extraction

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Prompt", func() {
	var prompt Prompt

	BeforeEach(func() {
		prompt = Prompt{Categories: []string{"Food", "General"}}
	})

	It("embeds the text and the allowed categories", func() {
		out := prompt.build("bread 10")
		Expect(out).To(ContainSubstring(`User text: "bread 10"`))
		Expect(out).To(ContainSubstring("(one of: Food, General)"))
	})

	It("asks for ISO dates only", func() {
		Expect(prompt.build("bread 10")).To(ContainSubstring(`add "date" as YYYY-MM-DD`))
	})

	It("leaves the item language alone by default", func() {
		Expect(prompt.build("bread 10")).NotTo(ContainSubstring(`Write "item" in`))
	})

	When("an item language is set", func() {
		BeforeEach(func() {
			prompt.ItemLanguage = "Hebrew"
		})

		It("asks for item names in that language", func() {
			Expect(prompt.build("bread 10")).To(ContainSubstring(`Write "item" in Hebrew, translating it if needed.`))
		})
	})
})
