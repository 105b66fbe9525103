// Package rsakey bridges RSA key objects owned by a native cryptographic
// engine to an exchangeable parameter record and back.
//
// A Library owns one engine. Keys are created through the Library (Create,
// Generate, Decode, Import) and are reference counted: every Key starts with
// one reference, AddRef and Release adjust the count, and the native object
// is destroyed exactly once when the last reference is released.
//
// Export copies the key's integers into a Parameters record using the
// fixed-width layout of legacy providers: Modulus and D are as wide as the
// modulus, the five CRT fields are half that width (rounded down), and the
// public exponent is minimal. Import validates a record and asks the engine
// to build a new key from it.
//
//	lib, err := rsakey.Open(rsakey.Config{})
//	if err != nil {
//	    return err
//	}
//	defer lib.Close()
//
//	key, err := lib.Generate(2048)
//	if err != nil {
//	    return err
//	}
//	defer key.Release()
//
//	params, err := key.Export(true)
//	// len(params.Modulus) == 256, len(params.P) == 128
package rsakey
