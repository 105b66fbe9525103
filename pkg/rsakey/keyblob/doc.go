// Package keyblob converts rsakey.Parameters to and from the legacy
// interchange formats produced by Windows key providers: the CryptoAPI
// PUBLICKEYBLOB and PRIVATEKEYBLOB structures and the XML RSAKeyValue
// document.
//
// Both formats store the CRT fields at half the modulus width, which is the
// layout rsakey.Key.Export produces, so exported records convert without
// re-padding.
package keyblob
