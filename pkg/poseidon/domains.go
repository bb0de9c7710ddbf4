// Copyright 2025 Certen Protocol

package poseidon

// Domain tags. Every semantically distinct hash use in the system gets
// its own fixed ASCII tag; reusing a tag across distinct purposes is
// forbidden (spec invariant: domain separation).
var (
	DomainProofGeneration  = []byte("ZKMTD_PROOF_GENERATION")
	DomainProofVerify      = []byte("ZKMTD_PROOF_VERIFICATION")
	DomainMTDParams        = []byte("ZKMTD_MTD_PARAMS")
	DomainEntropy          = []byte("ZKMTD_ENTROPY")
	DomainMerkle           = []byte("ZKMTD_MERKLE_COMBINE")
	DomainCommitment       = []byte("ZKMTD_COMMITMENT")
	DomainPVCommit         = []byte("ZKMTD_PV_COMMIT")
	DomainPVSalt           = []byte("ZKMTD_PV_SALT")
	DomainBinding          = []byte("ZKMTD_BINDING")
	DomainMTDDomainSepLeaf = []byte("ZKMTD_MTD_DOMAIN_SEP")
	DomainMTDSaltLeaf      = []byte("ZKMTD_MTD_SALT")
	DomainMTDFriSeedLeaf   = []byte("ZKMTD_MTD_FRI_SEED")
	DomainProofIntegrity   = []byte("ZKMTD_PROOF_INTEGRITY")
	DomainSeedFingerprint  = []byte("ZKMTD_SEED_FINGERPRINT")
	DomainCompressionCksum = []byte("ZKMTD_COMPRESSION_CHECKSUM")
	DomainChainEntropy     = []byte("ZKMTD_CHAIN_ENTROPY")
	DomainFRICommit        = []byte("ZKMTD_FRI_COMMIT")
	DomainFRITranscript    = []byte("ZKMTD_FRI_TRANSCRIPT")
	DomainTracePublicInput = []byte("ZKMTD_TRACE_PUBLIC_INPUT")
)
