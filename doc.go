// Package gpixel implements a forward-secure, aggregatable signature
// scheme over a bilinear pairing (BLS12-381, via supranational/blst). A
// Keypair's signing capability evolves over a bounded sequence of time
// periods [1, T]: each call to SigManager's update operations irreversibly
// punctures the keys needed to sign for periods before the new current
// one, while signatures already produced for earlier periods remain
// verifiable against the original Verkey forever. Signatures for the same
// time period and message, from distinct signers, aggregate into a single
// constant-size signature.
package gpixel
