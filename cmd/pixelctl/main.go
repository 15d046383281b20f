// Command pixelctl is a small demonstration CLI around the gpixel library:
// it drives a keypair through setup, schedule updates, signing and
// verification, and writes the resulting public artifacts (Verkey,
// Signature) to files so a separate invocation can re-verify them. It is
// not part of the core library's contract (spec.md §6 excludes a CLI from
// the core itself), just runnable example tooling in the style of this
// codebase's other cmd/ entry points.
package main

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/gordian-engine/gpixel"
	"github.com/gordian-engine/gpixel/internal/pixelgroup"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

type verkeyFile struct {
	Tag    string `json:"tag"`
	MaxT   uint64 `json:"max_t"`
	L      uint64 `json:"l"`
	Verkey string `json:"verkey_hex"`
}

type signatureFile struct {
	T      uint64 `json:"t"`
	Sigma1 string `json:"sigma1_hex"`
	Sigma2 string `json:"sigma2_hex"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	var tag string
	var maxT uint64

	root := &cobra.Command{
		Use:   "pixelctl",
		Short: "demonstration CLI for the gpixel forward-secure signature scheme",
	}
	root.PersistentFlags().StringVar(&tag, "tag", "pixelctl", "domain separation tag")
	root.PersistentFlags().Uint64Var(&maxT, "max-t", 7, "maximum time period T")

	root.AddCommand(
		demoCmd(logger, &tag, &maxT),
		verifyFileCmd(&tag, &maxT),
		versionCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// demoCmd runs Setup -> SimpleUpdate/FastForwardUpdate -> Sign -> Verify
// -> Aggregate end to end against one or more local signers, then writes
// the aggregate Verkey and Signature to disk.
func demoCmd(logger *slog.Logger, tag *string, maxT *uint64) *cobra.Command {
	var signers uint64
	var signAt uint64
	var fastForward uint64
	var message string
	var verkeyOut string
	var sigOut string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "run the full setup/update/sign/verify/aggregate pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := gpixel.TreeDepth(*maxT)
			if err != nil {
				return fmt.Errorf("computing tree depth: %w", err)
			}
			gs, err := gpixel.Setup([]byte(*tag), l)
			if err != nil {
				return fmt.Errorf("generator setup: %w", err)
			}

			msg := []byte(message)

			var verkeys []gpixel.Verkey
			var sigs []*gpixel.Signature

			for i := uint64(0); i < signers; i++ {
				kp, err := gpixel.GenerateKeypair(gs, rand.Reader)
				if err != nil {
					return fmt.Errorf("signer %d: generating keypair: %w", i, err)
				}

				store := gpixel.NewInMemoryKeyStore(l)
				sm := gpixel.NewSigManager(gs, store, kp.Root)

				if fastForward > 1 {
					if err := sm.FastForwardUpdate(fastForward, rand.Reader); err != nil {
						return fmt.Errorf("signer %d: fast forward to %d: %w", i, fastForward, err)
					}
				}
				for sm.CurrentT() < signAt {
					if err := sm.SimpleUpdate(rand.Reader); err != nil {
						return fmt.Errorf("signer %d: advancing to %d: %w", i, signAt, err)
					}
				}

				leaf, err := sm.GetKey(signAt, rand.Reader)
				if err != nil {
					return fmt.Errorf("signer %d: fetching key for period %d: %w", i, signAt, err)
				}

				sig, err := gpixel.Sign(gs, leaf, signAt, msg, rand.Reader)
				if err != nil {
					return fmt.Errorf("signer %d: signing: %w", i, err)
				}

				ok, err := gpixel.Verify(gs, kp.Verkey, sig, signAt, msg)
				if err != nil {
					return fmt.Errorf("signer %d: self-verifying: %w", i, err)
				}
				if !ok {
					return fmt.Errorf("signer %d: self-verification failed", i)
				}

				logger.Info("signer ready", "index", i, "t", signAt)
				verkeys = append(verkeys, kp.Verkey)
				sigs = append(sigs, sig)
			}

			agg, err := gpixel.Aggregate(sigs...)
			if err != nil {
				return fmt.Errorf("aggregating signatures: %w", err)
			}

			// Independently re-verify each member signature against its own
			// verkey before trusting the aggregate, accumulating every
			// failure rather than stopping at the first.
			var merr *multierror.Error
			for i, sig := range sigs {
				ok, err := gpixel.Verify(gs, verkeys[i], sig, signAt, msg)
				if err != nil {
					merr = multierror.Append(merr, fmt.Errorf("signer %d: %w", i, err))
					continue
				}
				if !ok {
					merr = multierror.Append(merr, fmt.Errorf("signer %d: signature did not verify", i))
				}
			}
			if merr.ErrorOrNil() != nil {
				return merr
			}

			aggVerkey := verkeys[0].Aggregate(verkeys[1:]...)
			ok, err := gpixel.VerifyAggregated(gs, verkeys, agg, signAt, msg)
			if err != nil {
				return fmt.Errorf("verifying aggregate: %w", err)
			}
			if !ok {
				return fmt.Errorf("aggregate signature failed to verify")
			}

			logger.Info("aggregate signature verified", "signers", signers, "t", signAt)

			if err := writeJSON(verkeyOut, verkeyFile{
				Tag:    *tag,
				MaxT:   *maxT,
				L:      l,
				Verkey: hexEncode(aggVerkey.Y.Compress()),
			}); err != nil {
				return fmt.Errorf("writing verkey file: %w", err)
			}
			if err := writeJSON(sigOut, signatureFile{
				T:      signAt,
				Sigma1: hexEncode(agg.Sigma1.Compress()),
				Sigma2: hexEncode(agg.Sigma2.Compress()),
			}); err != nil {
				return fmt.Errorf("writing signature file: %w", err)
			}

			return nil
		},
	}

	cmd.Flags().Uint64Var(&signers, "signers", 3, "number of independent signers to aggregate")
	cmd.Flags().Uint64Var(&signAt, "sign-at", 1, "time period to sign at")
	cmd.Flags().Uint64Var(&fastForward, "fast-forward", 0, "fast-forward each signer's schedule to this period before stepping to sign-at")
	cmd.Flags().StringVar(&message, "message", "hello pixel", "message to sign")
	cmd.Flags().StringVar(&verkeyOut, "verkey-out", "verkey.json", "path to write the aggregate verkey")
	cmd.Flags().StringVar(&sigOut, "sig-out", "signature.json", "path to write the aggregate signature")

	return cmd
}

// verifyFileCmd re-verifies a signature file against a verkey file produced
// by demoCmd, without access to any signing key material.
func verifyFileCmd(tag *string, maxT *uint64) *cobra.Command {
	var verkeyIn string
	var sigIn string
	var message string

	cmd := &cobra.Command{
		Use:   "verify-file",
		Short: "verify a signature file against a verkey file",
		RunE: func(cmd *cobra.Command, args []string) error {
			var vkf verkeyFile
			if err := readJSON(verkeyIn, &vkf); err != nil {
				return fmt.Errorf("reading verkey file: %w", err)
			}
			var sf signatureFile
			if err := readJSON(sigIn, &sf); err != nil {
				return fmt.Errorf("reading signature file: %w", err)
			}

			gs, err := gpixel.Setup([]byte(vkf.Tag), vkf.L)
			if err != nil {
				return fmt.Errorf("generator setup: %w", err)
			}

			yBytes, err := hexDecode(vkf.Verkey)
			if err != nil {
				return fmt.Errorf("decoding verkey: %w", err)
			}
			y, ok := pixelgroup.UncompressG2(yBytes)
			if !ok {
				return fmt.Errorf("verkey point is malformed")
			}

			s1Bytes, err := hexDecode(sf.Sigma1)
			if err != nil {
				return fmt.Errorf("decoding sigma1: %w", err)
			}
			sigma1, ok := pixelgroup.UncompressG1(s1Bytes)
			if !ok {
				return fmt.Errorf("sigma1 point is malformed")
			}
			s2Bytes, err := hexDecode(sf.Sigma2)
			if err != nil {
				return fmt.Errorf("decoding sigma2: %w", err)
			}
			sigma2, ok := pixelgroup.UncompressG2(s2Bytes)
			if !ok {
				return fmt.Errorf("sigma2 point is malformed")
			}

			sig := &gpixel.Signature{Sigma1: sigma1, Sigma2: sigma2}
			ok, err = gpixel.Verify(gs, gpixel.Verkey{Y: y}, sig, sf.T, []byte(message))
			if err != nil {
				return fmt.Errorf("verify: %w", err)
			}
			if !ok {
				fmt.Println("INVALID")
				os.Exit(1)
			}
			fmt.Println("VALID")
			return nil
		},
	}

	cmd.Flags().StringVar(&verkeyIn, "verkey-in", "verkey.json", "path to the verkey file")
	cmd.Flags().StringVar(&sigIn, "sig-in", "signature.json", "path to the signature file")
	cmd.Flags().StringVar(&message, "message", "hello pixel", "message the signature claims to cover")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the pixelctl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("pixelctl (gpixel demo CLI)")
		},
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(v)
}

func hexEncode(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0xf]
	}
	return string(out)
}

func hexDecode(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("odd-length hex string")
	}
	out := make([]byte, len(s)/2)
	for i := range out {
		hi, err := hexNibble(s[i*2])
		if err != nil {
			return nil, err
		}
		lo, err := hexNibble(s[i*2+1])
		if err != nil {
			return nil, err
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func hexNibble(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex digit %q", c)
	}
}
