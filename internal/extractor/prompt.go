package extractor

// BuildRentalPrompt returns the extraction prompt for rental listing texts.
func BuildRentalPrompt() string {
	return `You are a rental listing data extraction assistant. Analyze the listing text provided below and extract the facts defined in the schema.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation. Return just the raw JSON object.

Every field is an object with three keys:
- "value": the extracted value, or null if the fact is missing or unclear. Prefer null over guessing.
- "evidence": the exact substring of the listing that supports the value; include the larger substring which encapsulates the extracted value. Use null if value is null.
- "confidence": a score from 0.0 to 1.0. Use 1.0 for explicit, unambiguous matches; around 0.5 if inferred but not explicit; below 0.3 if weak or ambiguous; use 0.0 when value is null.

The JSON object must follow this schema exactly:
{
  "price_monthly": {"value": null, "evidence": null, "confidence": 0.0},
  "bedrooms": {"value": null, "evidence": null, "confidence": 0.0},
  "bathrooms": {"value": null, "evidence": null, "confidence": 0.0},
  "address": {"value": null, "evidence": null, "confidence": 0.0},
  "utilities_text": {"value": null, "evidence": null, "confidence": 0.0}
}

Field meanings:
- price_monthly: monthly rent in CAD as an integer. If missing or unclear, value=null.
- bedrooms: number of bedrooms as an integer. If missing, value=null.
- bathrooms: number of bathrooms as a number (e.g., 1, 1.5, 2). If missing, value=null.
- address: street/address or area name if present. If missing, value=null.
- utilities_text: verbatim utilities info (e.g., "heat, water, electrical, utilities included"). If missing, value=null.`
}
