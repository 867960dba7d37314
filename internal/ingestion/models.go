package ingestion

// Integrity is a (hash, algorithm) pair as supplied by the submitter.
type Integrity struct {
	Hash      string `json:"hash"`
	Algorithm string `json:"algorithm"`
}

// SubmissionFile describes one uploaded file. EncryptedIntegrity is checked
// here; UnencryptedIntegrity is forwarded untouched to the workers.
type SubmissionFile struct {
	Filename             string    `json:"filename"`
	EncryptedIntegrity   Integrity `json:"encryptedIntegrity"`
	UnencryptedIntegrity Integrity `json:"unencryptedIntegrity"`
}

// Submission is the decoded body of one ingest request.
type Submission struct {
	SubmissionID string           `json:"submissionId"`
	UserID       string           `json:"userId"`
	Files        []SubmissionFile `json:"files"`
}

// IngestTask is published once per verified and staged file.
type IngestTask struct {
	SubmissionID string `json:"submission_id"`
	UserID       string `json:"user_id"`
	Filepath     string `json:"filepath"`
	Target       string `json:"target"`
	Hash         string `json:"hash"`
	HashAlgo     string `json:"hash_algo"`
}
