package domain

// KeyPrefix namespaces every key the service writes to the database.
const KeyPrefix = "hoover:"

// Key layout under KeyPrefix.
// The cryptonym keys share a hash tag so RENAME works on a cluster.
const (
	GreetedKeyPrefix     = KeyPrefix + "greeted:"
	CryptonymsHashKey    = KeyPrefix + "{cryptonyms}"
	CryptonymsStagingKey = CryptonymsHashKey + ":staging"
	DocumentKeyPrefix = KeyPrefix + "doc:"
	NLPCacheKeyPrefix = KeyPrefix + "nlp_cache:"
	BudgetKeyPrefix   = KeyPrefix + "budget:"
)

// Hash fields of an indexed document under DocumentKeyPrefix.
const (
	DocFieldContent  = "content"
	DocFieldName     = "name"
	DocFieldPages    = "pages"
	DocFieldEnriched = "enriched"
)
