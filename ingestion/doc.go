// Package ingestion imports the storage-form institution document into an
// InstitutionRepository.
//
// The Importer decodes the document, validates each record, and writes the
// valid ones in batches. Invalid records are skipped and listed in the Report
// so a single bad entry never blocks the rest of a postal code.
package ingestion
