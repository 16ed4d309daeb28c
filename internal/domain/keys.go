package domain

// KeyPrefix namespaces every marketlens key in the shared store.
const KeyPrefix = "ml:"
