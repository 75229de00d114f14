// Package template renders outbound email bodies and the dev sign-in page.
//
// Supported variables:
//
//	{{app_name}}, {{link}}, {{expiry}}
//
//	sign-in page: {{client_id}}, {{redirect_uri}}
package template

import "strings"

type EmailData struct {
	AppName string
	Link    string
	Expiry  string
}

// RenderEmail substitutes template variables with actual values.
func RenderEmail(body string, data EmailData) string {
	return strings.NewReplacer(
		"{{app_name}}", data.AppName,
		"{{link}}", data.Link,
		"{{expiry}}", data.Expiry,
	).Replace(body)
}

type SignInPageData struct {
	ClientID    string
	RedirectURI string
}

// RenderSignInPage fills the dev-only Google sign-in test page.
func RenderSignInPage(data SignInPageData) string {
	return strings.NewReplacer(
		"{{client_id}}", data.ClientID,
		"{{redirect_uri}}", data.RedirectURI,
	).Replace(GoogleSignInPage)
}

const VerificationText = `Welcome to {{app_name}}!

Please verify your email address by clicking the link below:

{{link}}

This link will expire in {{expiry}}.

If you didn't create an account with {{app_name}}, please ignore this email.

Best regards,
The {{app_name}} Team
`

const VerificationHTML = `<html>
	<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
		<h2 style="color: #4CAF50;">Welcome to {{app_name}}!</h2>
		<p>Please verify your email address by clicking the button below:</p>
		<div style="margin: 30px 0;">
			<a href="{{link}}"
			   style="background-color: #4CAF50; color: white; padding: 12px 24px;
					  text-decoration: none; border-radius: 4px; display: inline-block;">
				Verify Email Address
			</a>
		</div>
		<p>Or copy and paste this link in your browser:</p>
		<p style="color: #666; word-break: break-all;">{{link}}</p>
		<p style="color: #999; font-size: 12px; margin-top: 30px;">
			This link will expire in {{expiry}}.
		</p>
		<p style="color: #999; font-size: 12px;">
			If you didn't create an account with {{app_name}}, please ignore this email.
		</p>
		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
		<p style="color: #999; font-size: 12px;">
			Best regards,<br>
			The {{app_name}} Team
		</p>
	</body>
</html>
`

const PasswordResetText = `Hello,

We received a request to reset your password for your {{app_name}} account.

Click the link below to reset your password:

{{link}}

This link will expire in {{expiry}}.

If you didn't request a password reset, please ignore this email and your password will remain unchanged.

Best regards,
The {{app_name}} Team
`

const PasswordResetHTML = `<html>
	<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
		<h2 style="color: #4CAF50;">Password Reset Request</h2>
		<p>We received a request to reset your password for your {{app_name}} account.</p>
		<p>Click the button below to reset your password:</p>
		<div style="margin: 30px 0;">
			<a href="{{link}}"
			   style="background-color: #4CAF50; color: white; padding: 12px 24px;
					  text-decoration: none; border-radius: 4px; display: inline-block;">
				Reset Password
			</a>
		</div>
		<p>Or copy and paste this link in your browser:</p>
		<p style="color: #666; word-break: break-all;">{{link}}</p>
		<p style="color: #999; font-size: 12px; margin-top: 30px;">
			This link will expire in {{expiry}}.
		</p>
		<p style="color: #999; font-size: 12px;">
			If you didn't request a password reset, please ignore this email and your password will remain unchanged.
		</p>
		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
		<p style="color: #999; font-size: 12px;">
			Best regards,<br>
			The {{app_name}} Team
		</p>
	</body>
</html>
`

const GoogleSignInPage = `<!DOCTYPE html>
<html>
<head>
	<title>Google Sign-In Test</title>
	<script src="https://accounts.google.com/gsi/client" async defer></script>
</head>
<body>
	<h1>Google Sign-In Test Page</h1>
	<p>Sign in below, then POST the printed ID token to /api/auth/google.</p>
	<div id="g_id_onload"
		 data-client_id="{{client_id}}"
		 data-login_uri="{{redirect_uri}}"
		 data-callback="onSignIn"></div>
	<div class="g_id_signin" data-type="standard"></div>
	<pre id="token" style="white-space: pre-wrap; word-break: break-all;"></pre>
	<script>
		function onSignIn(response) {
			document.getElementById("token").textContent = response.credential;
		}
	</script>
</body>
</html>
`
