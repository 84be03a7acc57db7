package patterns

// BuiltinSpecs returns the built-in rule catalog. The catalog targets the
// credential formats most often committed by accident: cloud provider keys,
// connection strings, registry credentials, framework env leaks, and generic
// secret assignments. Specs are compiled and validated by NewLibrary; the
// catalog itself carries no compiled state.
func BuiltinSpecs() []Spec {
	return []Spec{
		// Cloud provider credentials.
		{
			ID:         "aws-access-key-id",
			Name:       "AWS Access Key ID",
			Pattern:    `AKIA[0-9A-Z]{16}`,
			SecretType: TypeAWSAccessKey,
			Severity:   "CRITICAL",
		},
		{
			ID:         "aws-secret-access-key",
			Name:       "AWS Secret Access Key",
			Pattern:    `(?i)aws[_-]?secret[_-]?access[_-]?key['"\s:=]+([A-Za-z0-9/+=]{40})`,
			SecretType: TypeAWSSecretKey,
			Severity:   "CRITICAL",
		},
		{
			ID:         "gcp-api-key",
			Name:       "Google Cloud API Key",
			Pattern:    `AIza[0-9A-Za-z_-]{35}`,
			SecretType: TypeGenericAPIKey,
			Severity:   "CRITICAL",
		},
		{
			ID:         "azure-storage-connection-string",
			Name:       "Azure Storage Connection String",
			Pattern:    `DefaultEndpointsProtocol=https;AccountName=[^;]+;AccountKey=([A-Za-z0-9+/=]{88});`,
			SecretType: TypeAzureConnString,
			Severity:   "CRITICAL",
		},
		{
			ID:         "azure-sql-connection-string",
			Name:       "Azure SQL Connection String",
			Pattern:    `(?i)Server=tcp:[^;]+\.database\.windows\.net[^;]*;.*Password=([^;"']+)`,
			SecretType: TypeConnectionString,
			Severity:   "CRITICAL",
		},
		{
			ID:         "azure-client-secret",
			Name:       "Azure Service Principal Client Secret",
			Pattern:    `(?i)(?:AZURE_CLIENT_SECRET|ClientSecret)['"\s:=]+([A-Za-z0-9~._-]{34,40})`,
			SecretType: TypeAzureClientCreds,
			Severity:   "CRITICAL",
		},
		{
			ID:         "azure-devops-pat",
			Name:       "Azure DevOps Personal Access Token",
			Pattern:    `(?i)(?:AZURE_DEVOPS_PAT|ADO_PAT|SYSTEM_ACCESSTOKEN)['"\s:=]+([A-Za-z0-9]{52})`,
			SecretType: TypeBase64Key,
			Severity:   "CRITICAL",
		},
		{
			ID:         "azure-storage-account-key",
			Name:       "Azure Storage Account Key",
			Pattern:    `(?i)(?:AccountKey|AZURE_STORAGE_KEY)['"\s:=]+([A-Za-z0-9+/=]{88})`,
			SecretType: TypeBase64Key,
			Severity:   "CRITICAL",
		},
		{
			ID:         "azure-cosmos-db-key",
			Name:       "Azure Cosmos DB Key",
			Pattern:    `(?i)AccountEndpoint=https://[^;]+;AccountKey=([A-Za-z0-9+/=]{88})`,
			SecretType: TypeAzureConnString,
			Severity:   "CRITICAL",
		},
		{
			ID:         "azure-service-bus-connection-string",
			Name:       "Azure Service Bus Connection String",
			Pattern:    `(?i)Endpoint=sb://[^;]+;SharedAccessKeyName=[^;]+;SharedAccessKey=([A-Za-z0-9+/=]{43,})`,
			SecretType: TypeAzureConnString,
			Severity:   "CRITICAL",
		},
		{
			ID:         "azure-redis-connection-string",
			Name:       "Azure Redis Cache Connection String",
			Pattern:    `(?i)[a-z0-9-]+\.redis\.cache\.windows\.net[^,]*,password=([^,"']+)`,
			SecretType: TypeConnectionString,
			Severity:   "HIGH",
		},
		{
			ID:         "azure-app-insights-key",
			Name:       "Azure Application Insights Key",
			Pattern:    `(?i)(?:InstrumentationKey|APPINSIGHTS_INSTRUMENTATIONKEY)['"\s:=]+([a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12})`,
			SecretType: TypeUUIDKey,
			Severity:   "MEDIUM",
		},
		{
			ID:         "azure-container-registry-password",
			Name:       "Azure Container Registry Password",
			Pattern:    `(?i)(?:ACR_PASSWORD|acrPassword)['"\s:=]+([A-Za-z0-9+/=]{43,})`,
			SecretType: TypeRegistryCred,
			Severity:   "CRITICAL",
		},
		{
			ID:         "azure-functions-key",
			Name:       "Azure Functions Host Key",
			Pattern:    `(?i)x-functions-key['"\s:=]+([A-Za-z0-9_-]{52,})`,
			SecretType: TypeBase64Key,
			Severity:   "HIGH",
		},
		{
			ID:         "azure-keyvault-secret-version",
			Name:       "Azure Key Vault Secret Version In Code",
			Pattern:    `(?i)https://[a-z0-9-]+\.vault\.azure\.net/secrets/[^/\s]+/([a-f0-9]{32})`,
			SecretType: TypeGenericAPIKey,
			Severity:   "HIGH",
			Warning:    "Secret versions should be resolved at runtime, not hardcoded",
		},
		{
			ID:         "azure-publish-profile-password",
			Name:       "Azure App Service Publishing Password",
			Pattern:    `(?i)<publishProfile[^>]*userPWD="([^"]+)"`,
			SecretType: TypeGenericPassword,
			Severity:   "CRITICAL",
		},

		// Container registries and Docker.
		{
			ID:         "docker-hub-token",
			Name:       "Docker Hub Access Token",
			Pattern:    `(?i)(?:DOCKER_HUB_TOKEN|DOCKERHUB_TOKEN)['"\s:=]+([a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12})`,
			SecretType: TypeUUIDKey,
			Severity:   "CRITICAL",
		},
		{
			ID:         "docker-registry-password",
			Name:       "Docker Registry Password",
			Pattern:    `(?i)(?:DOCKER_PASSWORD|REGISTRY_PASSWORD)['"\s:=]+([^\s"']{8,})`,
			SecretType: TypeRegistryCred,
			Severity:   "CRITICAL",
		},
		{
			ID:           "dockerfile-arg-secret",
			Name:         "Dockerfile ARG With Secret",
			Pattern:      `(?i)ARG\s+(?:PASSWORD|SECRET|TOKEN|KEY|API_KEY)=([^\s]+)`,
			SecretType:   TypeGenericPassword,
			Severity:     "HIGH",
			ContextHints: []string{"compose"},
			Warning:      "ARG values are visible in image history",
		},
		{
			ID:           "dockerfile-env-secret",
			Name:         "Dockerfile ENV With Secret",
			Pattern:      `(?i)ENV\s+(?:PASSWORD|SECRET|TOKEN|KEY|API_KEY)\s*=?\s*([^\s]+)`,
			SecretType:   TypeGenericPassword,
			Severity:     "HIGH",
			ContextHints: []string{"compose"},
			Warning:      "ENV values are visible in image inspection",
		},
		{
			ID:         "harbor-password",
			Name:       "Harbor Registry Password",
			Pattern:    `(?i)harbor[_-]?password['"\s:=]+([^\s"']{8,})`,
			SecretType: TypeRegistryCred,
			Severity:   "CRITICAL",
		},

		// Frontend framework env leaks.
		{
			ID:         "next-public-exposure",
			Name:       "NEXT_PUBLIC With Sensitive Data",
			Pattern:    `(?i)NEXT_PUBLIC_[A-Z_]*(?:API|SECRET|KEY|TOKEN)['"\s:=]+([A-Za-z0-9+/=-]{20,})`,
			SecretType: TypeGenericAPIKey,
			Severity:   "HIGH",
			Warning:    "NEXT_PUBLIC_ variables are bundled into the browser build",
		},
		{
			ID:         "vite-exposure",
			Name:       "VITE With Sensitive Data",
			Pattern:    `(?i)VITE_[A-Z_]*(?:API|SECRET|KEY|TOKEN)['"\s:=]+([A-Za-z0-9+/=-]{20,})`,
			SecretType: TypeGenericAPIKey,
			Severity:   "HIGH",
			Warning:    "VITE_ variables are bundled into the browser build",
		},
		{
			ID:         "nextauth-secret",
			Name:       "Next.js API Secret",
			Pattern:    `(?i)(?:NEXTAUTH_SECRET|API_SECRET|APP_SECRET)['"\s:=]+([A-Za-z0-9+/=-]{32,})`,
			SecretType: TypeBase64Key,
			Severity:   "CRITICAL",
		},
		{
			ID:         "vercel-token",
			Name:       "Vercel Token",
			Pattern:    `(?i)vercel[_-]?token['"\s:=]+([A-Za-z0-9]{24})`,
			SecretType: TypeGenericAPIKey,
			Severity:   "CRITICAL",
		},

		// .NET configuration.
		{
			ID:         "sql-server-connection-string",
			Name:       "SQL Server Connection String",
			Pattern:    `(?i)(?:Server|Data Source)=[^;]+;(?:Database|Initial Catalog)=[^;]+;(?:User ID|UID)=[^;]+;(?:Password|PWD)=([^;"']+)`,
			SecretType: TypeConnectionString,
			Severity:   "CRITICAL",
		},
		{
			ID:         "identityserver-client-secret",
			Name:       "IdentityServer Client Secret",
			Pattern:    `(?i)ClientSecrets["\s:]*\[[^\]]*Value["\s:]*["']([A-Za-z0-9+/=-]{16,})["']`,
			SecretType: TypeBase64Key,
			Severity:   "CRITICAL",
		},
		{
			ID:         "dotnet-jwt-signing-key",
			Name:       "JWT Signing Key",
			Pattern:    `(?i)["'](?:Secret|SigningKey|IssuerSigningKey)["']\s*[:=]\s*["']([A-Za-z0-9+/=-]{32,})["']`,
			SecretType: TypeBase64Key,
			Severity:   "CRITICAL",
		},
		{
			ID:         "redis-password",
			Name:       "Redis Connection With Password",
			Pattern:    `(?i)(?:localhost|[0-9.]+|[a-z0-9.-]+):\d+,password=([^,\s"']+)`,
			SecretType: TypeConnectionString,
			Severity:   "HIGH",
		},

		// Generic and provider tokens.
		{
			ID:         "private-key-block",
			Name:       "Private Key",
			Pattern:    `-----BEGIN (?:RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY-----`,
			SecretType: TypePrivateKey,
			Severity:   "CRITICAL",
		},
		{
			ID:         "jwt-token",
			Name:       "JWT Token",
			Pattern:    `eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`,
			SecretType: TypeJWT,
			Severity:   "HIGH",
		},
		{
			ID:         "generic-api-key",
			Name:       "Generic API Key",
			Pattern:    `(?i)(?:api[_-]?key|apikey|api[_-]?secret)['"\s:=]+([A-Za-z0-9_-]{20,})`,
			SecretType: TypeGenericAPIKey,
			Severity:   "HIGH",
		},
		{
			ID:         "generic-secret-assignment",
			Name:       "Secret Variable Assignment",
			Pattern:    `[A-Z][A-Z0-9_]*_SECRET['"\s:=]+([^\s"']{8,})`,
			SecretType: TypeGenericPassword,
			Severity:   "HIGH",
		},
		{
			ID:         "password-assignment",
			Name:       "Password Variable",
			Pattern:    `(?i)(?:password|passwd|pwd)["\s:=]+["']?([^"'\s]{8,})["']?`,
			SecretType: TypeGenericPassword,
			Severity:   "HIGH",
		},
		{
			ID:         "database-url",
			Name:       "Database URL With Credentials",
			Pattern:    `(?:postgres|postgresql|mysql|mongodb(?:\+srv)?|amqp)://[a-zA-Z0-9_.-]+:([^@\s]+)@`,
			SecretType: TypeDatabaseURL,
			Severity:   "CRITICAL",
		},
		{
			ID:         "bearer-token",
			Name:       "Bearer Token",
			Pattern:    `Bearer\s+([A-Za-z0-9_\-.=]{20,})`,
			SecretType: TypeGenericAPIKey,
			Severity:   "HIGH",
		},
		{
			ID:         "slack-webhook",
			Name:       "Slack Webhook",
			Pattern:    `https://hooks\.slack\.com/services/T[A-Z0-9]{8,}/B[A-Z0-9]{8,}/[A-Za-z0-9]{24}`,
			SecretType: TypeWebhookURL,
			Severity:   "MEDIUM",
		},
		{
			ID:         "github-token",
			Name:       "GitHub Token",
			Pattern:    `(?:ghp|gho|ghu|ghs|ghr)_[A-Za-z0-9]{36,}`,
			SecretType: TypeGitHubToken,
			Severity:   "CRITICAL",
		},
		{
			ID:         "stripe-api-key",
			Name:       "Stripe API Key",
			Pattern:    `(?:sk|pk)_(?:live|test)_[0-9a-zA-Z_]{12,}`,
			SecretType: TypeStripeKey,
			Severity:   "CRITICAL",
		},
		{
			ID:         "sendgrid-api-key",
			Name:       "SendGrid API Key",
			Pattern:    `SG\.[a-zA-Z0-9_-]{22}\.[a-zA-Z0-9_-]{43}`,
			SecretType: TypeGenericAPIKey,
			Severity:   "HIGH",
		},
		{
			ID:         "npm-auth-token",
			Name:       "NPM Auth Token",
			Pattern:    `//registry\.npmjs\.org/:_authToken=([A-Za-z0-9_-]+)`,
			SecretType: TypeRegistryCred,
			Severity:   "CRITICAL",
		},
	}
}
