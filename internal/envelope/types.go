package envelope

// Envelope holds the raw output of one sealing operation.
type Envelope struct {
	Salt       []byte
	Nonce      []byte
	Tag        []byte
	Ciphertext []byte
}

// Container is the persisted form of an Envelope. Field names are read by
// the browser-side decryptor and must not change.
type Container struct {
	Salt       string `json:"salt"`
	IV         string `json:"iv"`
	Tag        string `json:"tag"`
	Ciphertext string `json:"ciphertext"`
}

// Params contains the PBKDF2 parameters used to derive the AES key.
type Params struct {
	SaltSize   int
	Iterations int
	KeyLen     int
}
