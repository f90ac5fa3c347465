package mcpserver

// ContactSchemaContract describes the contact fields LLM consumers read and
// write, and how each maps onto the record store.
const ContactSchemaContract = `# Contact Hub Contact Schema

Contacts are addressed by a numeric ` + "`id`" + ` assigned by the record store.
Ids are never reused, even after a delete.

## Fields

| Field         | Type            | Store column     | Create   | Notes |
|---------------|-----------------|------------------|----------|-------|
| id            | integer         | Id               | assigned | read-only |
| firstName     | string          | First_Name_c     | required | |
| lastName      | string          | Last_Name_c      | required | |
| email         | string          | Email_c          | required | must look like name@host.tld |
| phone         | string          | Phone_c          | required | |
| company       | string          | Company_c        | required | |
| position      | string          | Position_c       | optional | |
| photo         | string (URL)    | Photo_c          | optional | use upload_photo to obtain a URL |
| notes         | string          | Notes_c          | optional | |
| tags          | list of strings | Tags_c           | optional | lowercase, de-duplicated; stored comma-joined |
| emailStatus   | string          | Email_Status_c   | optional | defaults to "New" |
| createdAt     | timestamp       | createdAt        | assigned | read-only |
| updatedAt     | timestamp       | updatedAt        | assigned | refreshed on every update |

## Rules

1. **Updates are partial.** Only the fields you pass are changed; omitted fields keep
   their stored value. Passing an empty string for a required field is rejected.
2. **emailStatus** keeps its stored value on update unless you pass a new one.
3. **Tags** may be given as a list (` + "`[\"vip\", \"math\"]`" + `) or a comma-joined string
   (` + "`\"vip,math\"`" + `). They are lowercased and trimmed.
4. **Search** (` + "`search_contacts`" + `) matches case-insensitively against full name, email,
   phone, company, position and tags.
5. Saving a contact through ` + "`update_contact`" + ` notifies the contact by email in the
   background. The update succeeds even if that notification fails.

## Example

` + "```" + `json
{
  "firstName": "Grace",
  "lastName": "Hopper",
  "email": "grace@navy.mil",
  "phone": "555-0102",
  "company": "US Navy",
  "position": "Admiral",
  "tags": ["compilers", "cobol"]
}
` + "```" + `
`
