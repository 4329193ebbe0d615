package correction

import "fmt"

const promptTemplate = `You are a helpful language tutor. The user said: "%[1]s" in %[2]s.

Please provide a JSON response with the following structure:
{
  "original": "user's original text",
  "corrected": "grammatically correct version",
  "mistakes": "brief description of mistakes (e.g., 'voules → voudrais')",
  "response": "natural conversational response in %[2]s",
  "translation_user": "English translation of user's text",
  "translation_response": "English translation of your response",
  "fluency_score": 85,
  "vocabulary_words": [
    {
      "word": "example_word",
      "translation": "English translation",
      "difficulty": "beginner/intermediate/advanced",
      "usage_example": "Example sentence in %[2]s"
    }
  ]
}

Focus on:
1. Correcting grammar and vocabulary mistakes
2. Providing a natural, helpful response
3. Accurate translations
4. Highlighting specific mistakes clearly
5. Giving a fluency score (0-100) based on grammar, pronunciation accuracy, and naturalness
6. Suggesting 3-5 relevant vocabulary words from the user's speech or related to the topic, including difficulty level and usage examples`

// BuildPrompt renders the tutor prompt for an utterance in the named language
func BuildPrompt(text, languageName string) string {
	return fmt.Sprintf(promptTemplate, text, languageName)
}
