package registry

// Category and field names follow the backend's stored identifiers; labels
// are what the terminal renders.
var catalog = []Category{
	{
		Name: "Basic Identifiers",
		Fields: []FieldDefinition{
			{ID: "fullname", Category: "Basic Identifiers", Label: "Full Name", Placeholder: "John Michael Doe", rule: rules["fullname"]},
			{ID: "dob", Category: "Basic Identifiers", Label: "Date of Birth", Placeholder: "1999-05-12", Hint: "Format: YYYY-MM-DD", rule: rules["dob"]},
			{ID: "phone", Category: "Basic Identifiers", Label: "Phone Number", Placeholder: "+91-9876543210", rule: rules["phone"]},
			{ID: "email", Category: "Basic Identifiers", Label: "Email Address", Placeholder: "john.doe@example.com", rule: rules["email"]},
			{ID: "address", Category: "Basic Identifiers", Label: "Residential Address", Placeholder: "221B Baker Street, London", rule: rules["address"]},
		},
	},
	{
		Name: "Government Identifiers",
		Fields: []FieldDefinition{
			{ID: "adhar", Category: "Government Identifiers", Label: "Aadhaar Number", Placeholder: "XXXX-XXXX-XXXX", Hint: "Must be 12 digits", rule: rules["adhar"]},
			{ID: "passport", Category: "Government Identifiers", Label: "Passport Number", Placeholder: "A1234567", rule: rules["passport"]},
			{ID: "pan", Category: "Government Identifiers", Label: "PAN Number", Placeholder: "ABCDE1234F", Hint: "Format: ABCDE1234F", rule: rules["pan"]},
			{ID: "license", Category: "Government Identifiers", Label: "Driver's License", Placeholder: "DL-0420110149646", rule: rules["license"]},
			{ID: "smartcard", Category: "Government Identifiers", Label: "Smart Card Number", Placeholder: "123456789012", rule: rules["smartcard"]},
			{ID: "professionallicence", Category: "Government Identifiers", Label: "Professional License", Placeholder: "PROF-2024-12345", rule: rules["professionallicence"]},
		},
	},
	{
		Name: "Financial Info",
		Fields: []FieldDefinition{
			{ID: "accnum", Category: "Financial Info", Label: "Bank Account Number", Placeholder: "1234567890123456", rule: rules["accnum"]},
			{ID: "creditnum", Category: "Financial Info", Label: "Credit/Debit Card Number", Placeholder: "XXXX-XXXX-XXXX-XXXX", Hint: "Must be 16 digits", rule: rules["creditnum"]},
			{ID: "cvv", Category: "Financial Info", Label: "CVV Number", Placeholder: "123", Hint: "Must be 3 or 4 digits", rule: rules["cvv"]},
			{ID: "tax", Category: "Financial Info", Label: "Tax Filing Reference", Placeholder: "TXN-2024-ABCDE", rule: rules["tax"]},
			{ID: "pension", Category: "Financial Info", Label: "Pension Account Number", Placeholder: "PEN-1234567890", rule: rules["pension"]},
			{ID: "tradingacc", Category: "Financial Info", Label: "Trading Account Number", Placeholder: "INV-2024-12345", rule: rules["tradingacc"]},
		},
	},
	{
		Name: "Employment Education",
		Fields: []FieldDefinition{
			{ID: "empid", Category: "Employment Education", Label: "Employee ID", Placeholder: "EMP-1234", rule: rules["empid"]},
			{ID: "workemail", Category: "Employment Education", Label: "Work Email", Placeholder: "user@company.com", rule: rules["workemail"]},
			{ID: "emis", Category: "Employment Education", Label: "EMIS Number", Placeholder: "123456789012345", rule: rules["emis"]},
			{ID: "umis", Category: "Employment Education", Label: "UMIS Number", Placeholder: "UMIS-123456", rule: rules["umis"]},
		},
	},
	{
		Name: "Health Insurance",
		Fields: []FieldDefinition{
			{ID: "health_insurance", Category: "Health Insurance", Label: "Health Insurance ID", Placeholder: "HIN-12345678", rule: rules["health_insurance"]},
			{ID: "patientid", Category: "Health Insurance", Label: "Patient ID", Placeholder: "PAT-2024-0012", rule: rules["patientid"]},
			{ID: "disability_certificate", Category: "Health Insurance", Label: "Disability Certificate Number", Placeholder: "DIS-12345678", rule: rules["disability_certificate"]},
			{ID: "emergency_contact", Category: "Health Insurance", Label: "Emergency Contact", Placeholder: "Alice Doe (+91-9876543210)", rule: rules["emergency_contact"]},
		},
	},
}
