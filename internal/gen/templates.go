package gen

// clientBaseTemplate is the boilerplate head of the generated client file:
// imports, the transport base class, and the typed client class wrapping
// the generated methods.
const clientBaseTemplate = `/* Generated by tsgen. Do not edit. */

{{.Imports}}

export class HttpClient {
  private baseUrl: string;

  constructor(baseUrl: string) {
    this.baseUrl = baseUrl.replace(/\/+$/, "");
  }

  protected async request<T>(
    method: string,
    path: string,
    query?: Record<string, string | undefined>,
    body?: unknown,
  ): Promise<T> {
    const url = new URL(this.baseUrl + path);
    if (query) {
      for (const [key, value] of Object.entries(query)) {
        if (value !== undefined) {
          url.searchParams.set(key, value);
        }
      }
    }

    const response = await fetch(url.toString(), {
      method,
      headers: body === undefined ? {} : { "Content-Type": "application/json" },
      body: body === undefined ? undefined : JSON.stringify(body),
    });

    if (!response.ok) {
      throw new Error(method + " " + path + " failed: " + response.status);
    }
    if (response.status === 204 || response.headers.get("Content-Length") === "0") {
      return undefined as T;
    }
    return (await response.json()) as T;
  }
}

export class ApiClient extends HttpClient {
{{.Methods}}}
`

// modelsHeader opens the generated declarations file.
const modelsHeader = "/* Generated by tsgen. Do not edit. */\n"
