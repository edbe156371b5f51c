package ai

import "context"

// Reviewer produces the free-text first-pass review of a paper on disk.
type Reviewer interface {
	Review(ctx context.Context, localPath string) (string, error)
}

// Structurer re-expresses a free-text review as JSON matching the
// GradingResult schema. Implementations request the provider's
// JSON-constrained response mode; callers still treat the output as
// untrusted and validate it.
type Structurer interface {
	Structure(ctx context.Context, reviewText string) (string, error)
}

const reviewPrompt = `Analyze this academic paper and provide feedback. Include:
1. Overall quality score (0-100)
2. Positive aspects of the paper
3. Areas that need improvement
4. Any errors or problems found`

const structureInstructions = `The JSON should have this structure:
{   "Name": "Roll No or name of the paper taker if found, otherwise empty string",
    "marks": integer (0-100) it should depend on how good remarks are and how many errors there are,
    "remarks": [list of positive comments],
    "suggestions": [list of improvement areas],
    "errors": [list of problems found]
}

IMPORTANT: Ensure marks is a valid integer between 0 and 100. If no specific score is found, use 0.
Ensure all arrays are empty lists [] instead of null when there are no items.
Ensure Name is an empty string "" if no name is found.`

func structurePrompt(reviewText string) string {
	return "Convert the following feedback into a structured JSON format:\n\n" +
		reviewText + "\n\n" + structureInstructions
}
