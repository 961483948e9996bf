// Package serialization saves and loads trained models as JSON files.
//
// A model file is a JSON envelope around the model itself:
//
//	{
//	  "format_version": 1,
//	  "mlp_version": "0.1.0",
//	  "created_at": "2025-01-02T15:04:05Z",
//	  "metadata": {"data": "data_train.csv"},
//	  "checksum": "<hex SHA-256 of the compact model JSON>",
//	  "model": { ... }
//	}
//
// The checksum covers the compact encoding of the "model" member, so the
// envelope may be re-indented without invalidating it. Reading a file
// verifies the format version, the checksum and the model itself (topology,
// hyperparameters, parameter shapes and finiteness) before returning it.
//
// Example usage:
//
//	if err := serialization.WriteModel("model.json", model, nil); err != nil {
//	    log.Fatal(err)
//	}
//
//	model, err := serialization.ReadModel("model.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
package serialization
