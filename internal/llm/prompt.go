package llm

const jsonRules = `
Rules:
- Output MUST be valid JSON and contain ONLY JSON.
- NO explanations.
- NO markdown.
- Use null for values you cannot find. Never invent data.
`

func BuildMenuPrompt(content string) string {
	return `
You are a data extraction engine for restaurant menus.
` + jsonRules + `
Required JSON schema (an array of categories):
[
  {
    "category": "string",
    "items": [
      { "name": "string", "price": "string, as printed, e.g. $12.50", "notes": "string" }
    ]
  }
]

If there is no menu, return [].

CONTENT:
` + content
}

func BuildOffersPrompt(content, today string) string {
	return `
You are a data extraction engine for restaurant promotions and specials.
Today is ` + today + `.
` + jsonRules + `
Required JSON schema (an array of offers):
[
  {
    "title": "string",
    "details": "string",
    "code": "string or null",
    "startDate": "YYYY-MM-DD or null",
    "endDate": "YYYY-MM-DD or null",
    "startTime": "HH:MM (24h) or null",
    "endTime": "HH:MM (24h) or null",
    "daysOfWeek": [0-6 integers, 0 = Sunday; empty for every day]
  }
]

If there are no offers, return [].

CONTENT:
` + content
}

func BuildMetadataPrompt(content string) string {
	return `
You are a data extraction engine for restaurant contact details.
` + jsonRules + `
Required JSON schema:
{
  "name": "string",
  "address": "string",
  "phone": "string",
  "email": "string",
  "googleMapsUrl": "string",
  "orderingLinks": [ { "label": "string", "url": "string" } ],
  "hours": { "MON": "11:00-22:00 or CLOSED", "TUE": "...", "WED": "...", "THU": "...", "FRI": "...", "SAT": "...", "SUN": "..." }
}

Omit keys you cannot find.

CONTENT:
` + content
}

// BuildChatSystemPrompt frames a customer conversation around the
// restaurant context, given as JSON.
func BuildChatSystemPrompt(contextJSON string) string {
	return `
You are the friendly assistant for a restaurant, answering customer questions.
Answer only from the restaurant data below. Mention only the offers listed in
"activeOffers"; other offers are not currently available. If the data does not
answer the question, say so and suggest calling or visiting.
Keep answers short.

RESTAURANT DATA:
` + contextJSON
}
