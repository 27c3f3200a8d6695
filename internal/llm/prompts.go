package llm

const (
	coverLetterPrefix = "Generate a cover letter based on the following job description and my resume:"
	coldMailPrefix    = "Generate a very short and crisp within 100 words cold email to the recruiter based on the following job description and my resume:"
)

// CoverLetterPrompt builds the cover-letter prompt. Inputs are inserted verbatim.
func CoverLetterPrompt(jobDescription, resume string) string {
	return buildPrompt(coverLetterPrefix, jobDescription, resume)
}

// ColdMailPrompt builds the recruiter cold-email prompt, capped at 100 words.
func ColdMailPrompt(jobDescription, resume string) string {
	return buildPrompt(coldMailPrefix, jobDescription, resume)
}

func buildPrompt(prefix, jobDescription, resume string) string {
	return prefix + "\n\nJob Description:\n" + jobDescription + ", \n\nResume:\n" + resume
}
